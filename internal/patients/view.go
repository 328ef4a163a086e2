// Package patients is the patient list view with search, create, edit and delete.
package patients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/datefmt"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/internal/viewstate"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

const (
	DeleteQuestion     = "¿Estás seguro de que deseas eliminar este paciente?"
	deleteErrorMessage = "Error al eliminar el paciente"
)

var ErrNotFound = errors.New("patients: patient not found")

type API interface {
	ListPatients(ctx context.Context) ([]clinic.Patient, error)
	CreatePatient(ctx context.Context, in clinic.PatientCreate) (*clinic.Patient, error)
	UpdatePatient(ctx context.Context, id string, in clinic.PatientUpdate) error
	DeletePatient(ctx context.Context, id string) error
}

type Options struct {
	// APIBaseURL is quoted in the load error so the practitioner knows which
	// server to check.
	APIBaseURL string
	Clock      func() time.Time
	Logger     *logging.Logger
	Metrics    *metrics.ViewMetrics
}

// EditDraft is the edit dialog state: the patient id plus its form.
type EditDraft struct {
	ID string `json:"id"`
	forms.PatientDraft
}

type View struct {
	api   API
	opts  Options
	state *viewstate.State

	patients []clinic.Patient
	search   string

	create *forms.Dialog[forms.PatientDraft]
	edit   *forms.Dialog[EditDraft]
}

func New(api API, opts Options) *View {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	v := &View{
		api:   api,
		opts:  opts,
		state: viewstate.New("patients", opts.Logger, opts.Metrics),
	}
	v.create = forms.NewDialog(forms.DialogConfig[forms.PatientDraft]{
		Name:           "create-patient",
		Blank:          forms.NewPatientDraft,
		Submit:         v.submitCreate,
		OnSuccess:      v.Reload,
		FailureMessage: "Error al crear el paciente",
		Clock:          opts.Clock,
		Logger:         v.state.Logger(),
	})
	v.edit = forms.NewDialog(forms.DialogConfig[EditDraft]{
		Name:           "edit-patient",
		Blank:          func() EditDraft { return EditDraft{PatientDraft: forms.NewPatientDraft()} },
		Submit:         v.submitEdit,
		OnSuccess:      v.Reload,
		FailureMessage: "Error al actualizar el paciente",
		Clock:          opts.Clock,
		Logger:         v.state.Logger(),
	})
	return v
}

func (v *View) Reload(ctx context.Context) error {
	ticket := v.state.Begin()
	patients, err := v.api.ListPatients(ctx)
	return v.state.Commit(ctx, ticket, err, v.loadErrorMessage, func() {
		v.patients = patients
	})
}

func (v *View) loadErrorMessage(err error) string {
	return fmt.Sprintf("No se pudieron cargar los pacientes. Verifica que el servidor está corriendo en %s. Error: %s",
		v.opts.APIBaseURL, err.Error())
}

// SetSearch sets the search term applied by Snapshot.
func (v *View) SetSearch(term string) {
	v.state.Mutate(func() { v.search = term })
}

func (v *View) CreateDialog() *forms.Dialog[forms.PatientDraft] { return v.create }

func (v *View) EditDialog() *forms.Dialog[EditDraft] { return v.edit }

func (v *View) OpenCreate() {
	v.create.Open(forms.NewPatientDraft())
}

func (v *View) OpenEdit(id string) error {
	var (
		found clinic.Patient
		ok    bool
	)
	v.state.Read(func() {
		found, ok = clinic.FindPatient(v.patients, id)
	})
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	v.edit.Open(EditDraft{ID: id, PatientDraft: forms.PatientDraftFrom(found)})
	return nil
}

func (v *View) submitCreate(ctx context.Context, d forms.PatientDraft) error {
	_, err := v.api.CreatePatient(ctx, d.Create(v.opts.Clock()))
	return err
}

func (v *View) submitEdit(ctx context.Context, d EditDraft) error {
	return v.api.UpdatePatient(ctx, d.ID, d.PatientDraft.Update())
}

// Delete removes a patient after confirmation and drops the row locally.
func (v *View) Delete(ctx context.Context, id string, c confirm.Confirmer) (bool, error) {
	ok, err := c.Confirm(ctx, DeleteQuestion)
	if err != nil || !ok {
		return false, err
	}
	if err := v.api.DeletePatient(ctx, id); err != nil {
		v.state.Fail(deleteErrorMessage, err)
		return false, err
	}
	v.state.Mutate(func() {
		v.patients = clinic.RemoveByID(v.patients, id)
	})
	return true, nil
}

// Row is one patient as listed.
type Row struct {
	ID                 string   `json:"id"`
	Nombre             string   `json:"nombre"`
	Email              string   `json:"email"`
	Telefono           string   `json:"telefono"`
	ContactoEmergencia string   `json:"contactoEmergencia"`
	FechaNacimiento    string   `json:"fechaNacimiento"`
	Tags               []string `json:"tags"`
}

type Snapshot struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Search  string `json:"busqueda,omitempty"`
	Rows    []Row  `json:"pacientes"`
	Empty   string `json:"empty,omitempty"`
}

func (v *View) Snapshot() Snapshot {
	snap := Snapshot{Loading: v.state.Loading(), Error: v.state.Err()}
	// Birth dates are stored as UTC midnight.
	births := datefmt.New(time.UTC)
	v.state.Read(func() {
		snap.Search = v.search
		matches := Search(v.patients, v.search)
		snap.Rows = make([]Row, 0, len(matches))
		for _, p := range matches {
			snap.Rows = append(snap.Rows, Row{
				ID:                 p.ID,
				Nombre:             p.FullName(),
				Email:              p.Email,
				Telefono:           p.Telefono,
				ContactoEmergencia: p.ContactoEmergencia,
				FechaNacimiento:    births.Date(p.FechaNacimiento),
				Tags:               p.Tags(),
			})
		}
	})
	if len(snap.Rows) == 0 {
		snap.Empty = "No hay pacientes registrados"
	}
	return snap
}
