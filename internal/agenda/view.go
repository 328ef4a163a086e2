// Package agenda is the schedule view: filtered appointments grouped by day,
// with create, edit and cancel.
package agenda

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/internal/viewstate"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

const (
	DeleteQuestion     = "¿Estás seguro de que deseas cancelar esta cita?"
	loadErrorMessage   = "Error al cargar la agenda"
	deleteErrorMessage = "Error al cancelar la cita"
)

type API interface {
	ListAppointments(ctx context.Context) ([]clinic.Appointment, error)
	ListPatients(ctx context.Context) ([]clinic.Patient, error)
	CreateAppointment(ctx context.Context, in clinic.AppointmentCreate) (*clinic.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, in clinic.AppointmentUpdate) error
	DeleteAppointment(ctx context.Context, id string) error
}

type Options struct {
	Location *time.Location
	Clock    func() time.Time
	Logger   *logging.Logger
	Metrics  *metrics.ViewMetrics
}

// EditDraft is the edit dialog state: the appointment id plus its form.
type EditDraft struct {
	ID string `json:"id"`
	forms.AppointmentDraft
}

type View struct {
	api   API
	loc   *time.Location
	fmt   datefmt.Formatter
	state *viewstate.State

	appointments []clinic.Appointment
	patients     []clinic.Patient

	filterMu sync.RWMutex
	filter   Filter

	create *forms.Dialog[forms.AppointmentDraft]
	edit   *forms.Dialog[EditDraft]
}

func New(api API, opts Options) *View {
	df := datefmt.New(opts.Location)
	v := &View{
		api:   api,
		loc:   df.Location(),
		fmt:   df,
		state: viewstate.New("agenda", opts.Logger, opts.Metrics),
	}
	v.create = forms.NewDialog(forms.DialogConfig[forms.AppointmentDraft]{
		Name:           "create-appointment",
		Blank:          func() forms.AppointmentDraft { return forms.NewAppointmentDraft(v.loc) },
		Submit:         v.submitCreate,
		OnSuccess:      v.Reload,
		FailureMessage: "Error al crear la cita",
		Clock:          opts.Clock,
		Logger:         v.state.Logger(),
	})
	v.edit = forms.NewDialog(forms.DialogConfig[EditDraft]{
		Name:           "edit-appointment",
		Blank:          func() EditDraft { return EditDraft{AppointmentDraft: forms.NewAppointmentDraft(v.loc)} },
		Submit:         v.submitEdit,
		OnSuccess:      v.Reload,
		FailureMessage: "Error al actualizar la cita",
		Clock:          opts.Clock,
		Logger:         v.state.Logger(),
	})
	return v
}

// Reload re-fetches appointments and patients in parallel.
func (v *View) Reload(ctx context.Context) error {
	ticket := v.state.Begin()

	var (
		appts    []clinic.Appointment
		patients []clinic.Patient
	)
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
	err := g.Wait()

	return v.state.Commit(ctx, ticket, err, func(error) string { return loadErrorMessage }, func() {
		v.appointments = appts
		v.patients = patients
	})
}

func (v *View) SetFilter(f Filter) {
	v.filterMu.Lock()
	defer v.filterMu.Unlock()
	v.filter = f
}

func (v *View) Filter() Filter {
	v.filterMu.RLock()
	defer v.filterMu.RUnlock()
	return v.filter
}

func (v *View) CreateDialog() *forms.Dialog[forms.AppointmentDraft] { return v.create }

func (v *View) EditDialog() *forms.Dialog[EditDraft] { return v.edit }

// OpenCreate shows the create dialog with the default draft.
func (v *View) OpenCreate() {
	v.create.Open(forms.NewAppointmentDraft(v.loc))
}

// OpenEdit shows the edit dialog pre-populated from the loaded appointment.
func (v *View) OpenEdit(id string) error {
	var (
		found clinic.Appointment
		ok    bool
	)
	v.state.Read(func() {
		for _, a := range v.appointments {
			if a.ID == id {
				found, ok = a, true
				return
			}
		}
	})
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	v.edit.Open(EditDraft{ID: id, AppointmentDraft: forms.AppointmentDraftFrom(found, v.loc)})
	return nil
}

func (v *View) submitCreate(ctx context.Context, d forms.AppointmentDraft) error {
	body, err := d.WithLocation(v.loc).Create()
	if err != nil {
		return err
	}
	_, err = v.api.CreateAppointment(ctx, body)
	return err
}

func (v *View) submitEdit(ctx context.Context, d EditDraft) error {
	body, err := d.AppointmentDraft.WithLocation(v.loc).Update()
	if err != nil {
		return err
	}
	return v.api.UpdateAppointment(ctx, d.ID, body)
}

// Delete cancels an appointment after confirmation and drops it locally
// without waiting for a reload.
func (v *View) Delete(ctx context.Context, id string, c confirm.Confirmer) (bool, error) {
	ok, err := c.Confirm(ctx, DeleteQuestion)
	if err != nil || !ok {
		return false, err
	}
	if err := v.api.DeleteAppointment(ctx, id); err != nil {
		v.state.Fail(deleteErrorMessage, err)
		return false, err
	}
	v.state.Mutate(func() {
		v.appointments = clinic.RemoveByID(v.appointments, id)
	})
	return true, nil
}

// Card is one appointment as shown in a day group.
type Card struct {
	ID         string  `json:"id"`
	PacienteID string  `json:"pacienteId"`
	Paciente   string  `json:"paciente"`
	Horario    string  `json:"horario"`
	Modo       string  `json:"modo"`
	Estado     string  `json:"estado"`
	Ubicacion  *string `json:"ubicacion,omitempty"`
	Notas      *string `json:"notas,omitempty"`
}

type Day struct {
	Key     string `json:"key"`
	Heading string `json:"heading"`
	Citas   []Card `json:"citas"`
}

type Snapshot struct {
	Loading   bool                   `json:"loading"`
	Error     string                 `json:"error,omitempty"`
	Filter    Filter                 `json:"filtro"`
	Title     string                 `json:"title"`
	Total     int                    `json:"total"`
	Days      []Day                  `json:"dias"`
	Empty     string                 `json:"empty,omitempty"`
	Pacientes []clinic.PatientOption `json:"pacientes"`
}

func (v *View) Snapshot() Snapshot {
	filter := v.Filter()
	snap := Snapshot{Loading: v.state.Loading(), Error: v.state.Err(), Filter: filter}
	v.state.Read(func() {
		filtered := Apply(v.appointments, filter, v.loc)
		snap.Total = len(filtered)
		snap.Pacientes = clinic.PatientOptions(v.patients)
		for _, g := range GroupByDay(filtered, v.fmt) {
			day := Day{Key: g.Key, Heading: g.Heading, Citas: make([]Card, 0, len(g.Appointments))}
			for _, a := range g.Appointments {
				day.Citas = append(day.Citas, v.card(a))
			}
			snap.Days = append(snap.Days, day)
		}
	})
	snap.Title = fmt.Sprintf("Citas (%d)", snap.Total)
	if len(snap.Days) == 0 {
		snap.Empty = "No hay citas registradas"
	}
	return snap
}

func (v *View) card(a clinic.Appointment) Card {
	return Card{
		ID:         a.ID,
		PacienteID: a.PacienteID,
		Paciente:   clinic.PatientName(v.patients, a.PacienteID),
		Horario:    v.fmt.Time(a.FechaInicio) + " - " + v.fmt.Time(a.FechaFin),
		Modo:       strings.ToLower(a.Modo.Label()),
		Estado:     strings.ToLower(a.Estado.Label()),
		Ubicacion:  a.UbicacionLink,
		Notas:      a.Notas,
	}
}
