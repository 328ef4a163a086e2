package dashboard

import (
	"slices"
	"time"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
)

// DefaultLimit caps the upcoming widget.
const DefaultLimit = 5

// Predicate selects which appointments count as upcoming.
type Predicate func(clinic.Appointment) bool

// StatusIn accepts appointments whose status is one of statuses.
func StatusIn(statuses ...clinic.Status) Predicate {
	set := make(map[clinic.Status]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return func(a clinic.Appointment) bool {
		_, ok := set[a.Estado]
		return ok
	}
}

// Upcoming returns appointments starting at or after now that satisfy pred,
// sorted by start time and truncated to limit (DefaultLimit when <= 0).
// Zoneless starts are read in loc. Appointments with an unreadable start are
// skipped.
func Upcoming(appts []clinic.Appointment, now time.Time, loc *time.Location, pred Predicate, limit int) []clinic.Appointment {
	if limit <= 0 {
		limit = DefaultLimit
	}
	f := datefmt.New(loc)

	type dated struct {
		appt  clinic.Appointment
		start time.Time
	}
	var picked []dated
	for _, a := range appts {
		start, ok := f.Parse(a.FechaInicio)
		if !ok || start.Before(now) {
			continue
		}
		if pred != nil && !pred(a) {
			continue
		}
		picked = append(picked, dated{appt: a, start: start})
	}
	slices.SortStableFunc(picked, func(x, y dated) int {
		return x.start.Compare(y.start)
	})
	if len(picked) > limit {
		picked = picked[:limit]
	}
	out := make([]clinic.Appointment, 0, len(picked))
	for _, d := range picked {
		out = append(out, d.appt)
	}
	return out
}
