package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
)

func at(id, patient, start string, status clinic.Status) clinic.Appointment {
	return clinic.Appointment{ID: id, PacienteID: patient, FechaInicio: start, FechaFin: start, Estado: status}
}

func fixture() []clinic.Appointment {
	return []clinic.Appointment{
		at("a1", "p1", "2026-10-14T09:00:00Z", clinic.Pendiente),
		at("a2", "p2", "2026-10-15T08:00:00Z", clinic.Confirmada),
		at("a3", "p1", "2026-10-15T23:59:59Z", clinic.Cancelada),
		at("a4", "p1", "2026-10-16T00:00:00Z", clinic.Pendiente),
		at("a5", "p2", "not a date", clinic.Pendiente),
	}
}

func ids(appts []clinic.Appointment) []string {
	out := make([]string, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	pending := clinic.Pendiente
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter keeps everything", Filter{}, []string{"a1", "a2", "a3", "a4", "a5"}},
		{"patient", Filter{PatientID: "p1"}, []string{"a1", "a3", "a4"}},
		{"status", Filter{Status: &pending}, []string{"a1", "a4", "a5"}},
		{"from inclusive", Filter{From: "2026-10-15"}, []string{"a2", "a3", "a4"}},
		{"to covers whole day", Filter{To: "2026-10-15"}, []string{"a1", "a2", "a3"}},
		{"single day", Filter{From: "2026-10-15", To: "2026-10-15"}, []string{"a2", "a3"}},
		{"all predicates", Filter{PatientID: "p1", Status: &pending, From: "2026-10-15"}, []string{"a4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(fixture(), tt.filter, time.UTC)))
		})
	}
}

// Every returned appointment satisfies every active predicate and nothing
// satisfying them all is dropped.
func TestApplyExhaustive(t *testing.T) {
	appts := fixture()
	patients := []string{"", "p1", "p2", "p3"}
	dates := []string{"", "2026-10-14", "2026-10-15", "2026-10-16"}
	statuses := append([]*clinic.Status{nil}, statusPtrs()...)

	for _, p := range patients {
		for _, s := range statuses {
			for _, from := range dates {
				for _, to := range dates {
					f := Filter{PatientID: p, Status: s, From: from, To: to}
					got := map[string]bool{}
					for _, a := range Apply(appts, f, time.UTC) {
						got[a.ID] = true
					}
					for _, a := range appts {
						assert.Equal(t, matches(a, f), got[a.ID], "filter %+v appointment %s", f, a.ID)
					}
				}
			}
		}
	}
}

func statusPtrs() []*clinic.Status {
	out := make([]*clinic.Status, 0, len(clinic.Statuses))
	for i := range clinic.Statuses {
		out = append(out, &clinic.Statuses[i])
	}
	return out
}

func matches(a clinic.Appointment, f Filter) bool {
	if f.PatientID != "" && a.PacienteID != f.PatientID {
		return false
	}
	if f.Status != nil && a.Estado != *f.Status {
		return false
	}
	if f.From == "" && f.To == "" {
		return true
	}
	start, err := time.Parse(time.RFC3339, a.FechaInicio)
	if err != nil {
		return false
	}
	day := start.Format("2006-01-02")
	if f.From != "" && day < f.From {
		return false
	}
	if f.To != "" && day > f.To {
		return false
	}
	return true
}

func TestApplyUsesLocation(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	// 23:30Z on the 15th is 01:30 on the 16th in CEST.
	appts := []clinic.Appointment{at("late", "p1", "2026-10-15T23:30:00Z", clinic.Pendiente)}
	assert.Empty(t, Apply(appts, Filter{To: "2026-10-15"}, loc))
	assert.Len(t, Apply(appts, Filter{From: "2026-10-16"}, loc), 1)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" p1 ", "todos", "2026-10-01", "")
	require.NoError(t, err)
	assert.Equal(t, "p1", f.PatientID)
	assert.Nil(t, f.Status)

	f, err = ParseFilter("", "1", "", "")
	require.NoError(t, err)
	require.NotNil(t, f.Status)
	assert.Equal(t, clinic.Confirmada, *f.Status)

	_, err = ParseFilter("", "9", "", "")
	assert.ErrorIs(t, err, clinic.ErrUnknownStatus)
	_, err = ParseFilter("", "", "01/10/2026", "")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGroupByDay(t *testing.T) {
	appts := []clinic.Appointment{
		at("late", "p1", "2026-10-16T15:00:00Z", clinic.Pendiente),
		at("b", "p1", "2026-10-15T18:00:00Z", clinic.Pendiente),
		at("a", "p1", "2026-10-15T08:00:00Z", clinic.Pendiente),
		at("bad", "p1", "", clinic.Pendiente),
		at("early", "p1", "2026-10-14T10:00:00Z", clinic.Pendiente),
	}
	groups := GroupByDay(appts, datefmt.New(time.UTC))

	require.Len(t, groups, 3)
	assert.Equal(t, "2026-10-14", groups[0].Key)
	assert.Equal(t, "2026-10-15", groups[1].Key)
	assert.Equal(t, "2026-10-16", groups[2].Key)
	assert.Equal(t, "Jueves, 15 de octubre de 2026", groups[1].Heading)
	// Source order inside a bucket is preserved.
	assert.Equal(t, []string{"b", "a"}, ids(groups[1].Appointments))
}
