// Package dashboard is the landing view: summary stat cards and the upcoming
// appointments widget.
package dashboard

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/internal/viewstate"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

const upcomingErrorMessage = "Error al cargar las citas. Verifica que el servidor esté disponible."

// API is the part of the clinic client the dashboard needs.
type API interface {
	Summary(ctx context.Context) (clinic.Summary, error)
	ListAppointments(ctx context.Context) ([]clinic.Appointment, error)
	ListPatients(ctx context.Context) ([]clinic.Patient, error)
}

type Options struct {
	// Predicate defaults to StatusIn(Pendiente, Confirmada).
	Predicate Predicate
	Limit     int
	Location  *time.Location
	Clock     func() time.Time
	Logger    *logging.Logger
	Metrics   *metrics.ViewMetrics
}

type View struct {
	api   API
	opts  Options
	fmt   datefmt.Formatter
	state *viewstate.State

	summary      clinic.Summary
	appointments []clinic.Appointment
	patients     []clinic.Patient
}

func New(api API, opts Options) *View {
	if opts.Predicate == nil {
		opts.Predicate = StatusIn(clinic.Pendiente, clinic.Confirmada)
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &View{
		api:   api,
		opts:  opts,
		fmt:   datefmt.New(opts.Location),
		state: viewstate.New("dashboard", opts.Logger, opts.Metrics),
	}
}

// Reload fetches the summary and, concurrently, the appointments and patients
// behind the upcoming widget. A summary failure is only logged and the cards
// fall back to placeholders.
func (v *View) Reload(ctx context.Context) error {
	ticket := v.state.Begin()

	var (
		summary  clinic.Summary
		appts    []clinic.Appointment
		patients []clinic.Patient
	)
	var outer errgroup.Group
	outer.Go(func() error {
		s, err := v.api.Summary(ctx)
		if err != nil {
			v.state.Logger().Warn("dashboard summary unavailable", "error", err)
			return nil
		}
		summary = s
		return nil
	})
	outer.Go(func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			appts, err = v.api.ListAppointments(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			patients, err = v.api.ListPatients(gctx)
			return err
		})
		return g.Wait()
	})
	err := outer.Wait()

	// The cards do not depend on the upcoming fetch succeeding.
	if summary != nil {
		v.state.MutateCurrent(ctx, ticket, func() { v.summary = summary })
	}
	return v.state.Commit(ctx, ticket, err, func(error) string { return upcomingErrorMessage }, func() {
		v.appointments = appts
		v.patients = patients
	})
}

// StatCard is one of the four summary cards.
type StatCard struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
}

// UpcomingItem is one row of the upcoming widget.
type UpcomingItem struct {
	ID         string `json:"id"`
	PacienteID string `json:"pacienteId"`
	Paciente   string `json:"paciente"`
	Cuando     string `json:"cuando"`
	Modo       string `json:"modo"`
	Estado     string `json:"estado"`
}

// Snapshot is the rendered state of the view.
type Snapshot struct {
	Loading  bool           `json:"loading"`
	Error    string         `json:"error,omitempty"`
	Stats    []StatCard     `json:"stats"`
	Upcoming []UpcomingItem `json:"upcoming"`
	Empty    string         `json:"empty,omitempty"`
}

var statDefs = []struct {
	key, label string
}{
	{clinic.SummaryTotalPatients, "Pacientes"},
	{clinic.SummaryAppointmentsDay, "Citas Hoy"},
	{clinic.SummaryTotalSessions, "Sesiones"},
	{clinic.SummaryNextAppointment, "Próxima Cita"},
}

// StatCards renders summary into the four cards. Missing totals show "-",
// other missing counters show "0".
func StatCards(summary clinic.Summary) []StatCard {
	cards := make([]StatCard, 0, len(statDefs))
	for _, def := range statDefs {
		value, ok := summary.Value(def.key)
		if !ok {
			value = "0"
			if def.key == clinic.SummaryTotalPatients || def.key == clinic.SummaryTotalSessions {
				value = "-"
			}
		}
		caption := "Total"
		if def.key == clinic.SummaryNextAppointment {
			caption = "Próximas 24h"
		}
		cards = append(cards, StatCard{Key: def.key, Label: def.label, Value: value, Caption: caption})
	}
	return cards
}

func (v *View) Snapshot() Snapshot {
	snap := Snapshot{Loading: v.state.Loading(), Error: v.state.Err()}
	v.state.Read(func() {
		snap.Stats = StatCards(v.summary)
		upcoming := Upcoming(v.appointments, v.opts.Clock(), v.fmt.Location(), v.opts.Predicate, v.opts.Limit)
		snap.Upcoming = make([]UpcomingItem, 0, len(upcoming))
		for _, a := range upcoming {
			snap.Upcoming = append(snap.Upcoming, UpcomingItem{
				ID:         a.ID,
				PacienteID: a.PacienteID,
				Paciente:   clinic.PatientName(v.patients, a.PacienteID),
				Cuando:     v.fmt.DateTime(a.FechaInicio),
				Modo:       strings.ToLower(a.Modo.Label()),
				Estado:     strings.ToLower(a.Estado.Label()),
			})
		}
	})
	if len(snap.Upcoming) == 0 && snap.Error == "" {
		snap.Empty = "No hay citas próximas"
	}
	return snap
}
