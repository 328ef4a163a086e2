package agenda

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
)

const dateLayout = "2006-01-02"

// Filter narrows the agenda. Zero fields are inactive.
type Filter struct {
	PatientID string         `json:"paciente,omitempty"`
	Status    *clinic.Status `json:"estado,omitempty"`
	From      string         `json:"desde,omitempty"` // YYYY-MM-DD, inclusive
	To        string         `json:"hasta,omitempty"` // YYYY-MM-DD, inclusive of the whole day
}

// ParseFilter builds a Filter from raw query values. estado accepts the
// "todos" sentinel.
func ParseFilter(paciente, estado, desde, hasta string) (Filter, error) {
	status, err := clinic.ParseStatusFilter(estado)
	if err != nil {
		return Filter{}, err
	}
	f := Filter{
		PatientID: strings.TrimSpace(paciente),
		Status:    status,
		From:      strings.TrimSpace(desde),
		To:        strings.TrimSpace(hasta),
	}
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return Filter{}, fmt.Errorf("%w: %q", ErrInvalidDate, d)
		}
	}
	return f, nil
}

// Apply returns the appointments that satisfy every active predicate, in
// source order. Date bounds are read in loc; To extends to 23:59:59.999.
func Apply(appts []clinic.Appointment, f Filter, loc *time.Location) []clinic.Appointment {
	df := datefmt.New(loc)
	from, hasFrom := dayStart(f.From, df.Location())
	to, hasTo := dayStart(f.To, df.Location())
	if hasTo {
		to = to.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	out := make([]clinic.Appointment, 0, len(appts))
	for _, a := range appts {
		if f.PatientID != "" && a.PacienteID != f.PatientID {
			continue
		}
		if f.Status != nil && a.Estado != *f.Status {
			continue
		}
		if hasFrom || hasTo {
			start, ok := df.Parse(a.FechaInicio)
			if !ok {
				continue
			}
			if hasFrom && start.Before(from) {
				continue
			}
			if hasTo && start.After(to) {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func dayStart(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayGroup holds the appointments starting on one calendar date.
type DayGroup struct {
	Key          string
	Heading      string
	Appointments []clinic.Appointment
}

// GroupByDay buckets appointments by the local date of their start, buckets
// ascending, source order kept inside each bucket. Unreadable starts are
// dropped.
func GroupByDay(appts []clinic.Appointment, f datefmt.Formatter) []DayGroup {
	index := map[string]int{}
	var groups []DayGroup
	for _, a := range appts {
		start, ok := f.Parse(a.FechaInicio)
		if !ok {
			continue
		}
		key := f.Key(start)
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Key: key, Heading: f.Heading(start)})
		}
		groups[i].Appointments = append(groups[i].Appointments, a)
	}
	slices.SortStableFunc(groups, func(x, y DayGroup) int {
		return strings.Compare(x.Key, y.Key)
	})
	return groups
}
