// Package sessions lists SOAP session notes, shows their detail and handles
// create, SOAP edit and delete.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/internal/viewstate"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

const (
	DeleteQuestion     = "¿Estás seguro de que deseas eliminar esta sesión?"
	loadErrorMessage   = "Error al cargar las sesiones"
	deleteErrorMessage = "Error al eliminar la sesión"
)

var ErrNotFound = errors.New("sessions: session not found")

type API interface {
	ListSessions(ctx context.Context) ([]clinic.Session, error)
	ListPatients(ctx context.Context) ([]clinic.Patient, error)
	CreateSession(ctx context.Context, in clinic.SessionCreate) (*clinic.Session, error)
	UpdateSession(ctx context.Context, id string, in clinic.SessionUpdate) error
	DeleteSession(ctx context.Context, id string) error
}

type Options struct {
	Clock   func() time.Time
	Logger  *logging.Logger
	Metrics *metrics.ViewMetrics
}

// EditDraft is the SOAP edit state: the session id plus the four sections.
type EditDraft struct {
	ID string `json:"id"`
	forms.SOAPDraft
}

type View struct {
	api   API
	state *viewstate.State

	sessions []clinic.Session
	patients []clinic.Patient
	search   string

	create *forms.Dialog[forms.SessionDraft]
	edit   *forms.Dialog[EditDraft]
}

func New(api API, opts Options) *View {
	v := &View{
		api:   api,
		state: viewstate.New("sessions", opts.Logger, opts.Metrics),
	}
	v.create = forms.NewDialog(forms.DialogConfig[forms.SessionDraft]{
		Name:           "create-session",
		Blank:          forms.NewSessionDraft,
		Submit:         v.submitCreate,
		OnSuccess:      v.Reload,
		FailureMessage: "Error al crear la sesión",
		Clock:          opts.Clock,
		Logger:         v.state.Logger(),
	})
	v.edit = forms.NewDialog(forms.DialogConfig[EditDraft]{
		Name:           "edit-session",
		Blank:          func() EditDraft { return EditDraft{} },
		Submit:         v.submitEdit,
		OnSuccess:      v.Reload,
		FailureMessage: "Error al actualizar la sesión",
		Clock:          opts.Clock,
		Logger:         v.state.Logger(),
	})
	return v
}

// Reload re-fetches sessions and patients in parallel.
func (v *View) Reload(ctx context.Context) error {
	ticket := v.state.Begin()

	var (
		sessions []clinic.Session
		patients []clinic.Patient
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = v.api.ListSessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		patients, err = v.api.ListPatients(gctx)
		return err
	})
	err := g.Wait()

	return v.state.Commit(ctx, ticket, err, func(error) string { return loadErrorMessage }, func() {
		v.sessions = sessions
		v.patients = patients
	})
}

func (v *View) SetSearch(term string) {
	v.state.Mutate(func() { v.search = term })
}

func (v *View) CreateDialog() *forms.Dialog[forms.SessionDraft] { return v.create }

func (v *View) EditDialog() *forms.Dialog[EditDraft] { return v.edit }

func (v *View) OpenCreate() {
	v.create.Open(forms.NewSessionDraft())
}

func (v *View) find(id string) (clinic.Session, bool) {
	var (
		found clinic.Session
		ok    bool
	)
	v.state.Read(func() {
		for _, s := range v.sessions {
			if s.ID == id {
				found, ok = s, true
				return
			}
		}
	})
	return found, ok
}

// OpenEdit switches the detail of a session into SOAP edit mode.
func (v *View) OpenEdit(id string) error {
	s, ok := v.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	v.edit.Open(EditDraft{ID: id, SOAPDraft: forms.SOAPDraftFrom(s)})
	return nil
}

func (v *View) submitCreate(ctx context.Context, d forms.SessionDraft) error {
	_, err := v.api.CreateSession(ctx, d.Create())
	return err
}

func (v *View) submitEdit(ctx context.Context, d EditDraft) error {
	return v.api.UpdateSession(ctx, d.ID, d.SOAPDraft.Update())
}

// Delete removes a session after confirmation and drops it locally.
func (v *View) Delete(ctx context.Context, id string, c confirm.Confirmer) (bool, error) {
	ok, err := c.Confirm(ctx, DeleteQuestion)
	if err != nil || !ok {
		return false, err
	}
	if err := v.api.DeleteSession(ctx, id); err != nil {
		v.state.Fail(deleteErrorMessage, err)
		return false, err
	}
	v.state.Mutate(func() {
		v.sessions = clinic.RemoveByID(v.sessions, id)
	})
	return true, nil
}

// Detail returns the "Ver" projection of one loaded session.
func (v *View) Detail(id string) (Detail, error) {
	s, ok := v.find(id)
	if !ok {
		return Detail{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var name string
	v.state.Read(func() { name = clinic.PatientName(v.patients, s.PacienteID) })
	return Detail{
		ID:         s.ID,
		PacienteID: s.PacienteID,
		Paciente:   name,
		CitaID:     s.CitaID,
		Sections:   Sections(s),
		Archivos:   s.Attachments(),
	}, nil
}

// Card is the list projection of a session.
type Card struct {
	ID            string `json:"id"`
	Titulo        string `json:"titulo"`
	Paciente      string `json:"paciente"`
	PacienteID    string `json:"pacienteId"`
	Subjetivo     string `json:"subjetivo,omitempty"`
	Observaciones string `json:"observaciones,omitempty"`
	Archivos      int    `json:"archivos"`
}

type Snapshot struct {
	Loading   bool                   `json:"loading"`
	Error     string                 `json:"error,omitempty"`
	Search    string                 `json:"busqueda,omitempty"`
	Cards     []Card                 `json:"sesiones"`
	Empty     string                 `json:"empty,omitempty"`
	Pacientes []clinic.PatientOption `json:"pacientes"`
}

// Search keeps sessions whose joined patient name contains term,
// case-insensitively.
func Search(sessions []clinic.Session, patients []clinic.Patient, term string) []clinic.Session {
	lower := strings.ToLower(term)
	out := make([]clinic.Session, 0, len(sessions))
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(clinic.PatientName(patients, s.PacienteID)), lower) {
			out = append(out, s)
		}
	}
	return out
}

func (v *View) Snapshot() Snapshot {
	snap := Snapshot{Loading: v.state.Loading(), Error: v.state.Err()}
	v.state.Read(func() {
		snap.Search = v.search
		snap.Pacientes = clinic.PatientOptions(v.patients)
		matches := Search(v.sessions, v.patients, v.search)
		snap.Cards = make([]Card, 0, len(matches))
		for _, s := range matches {
			snap.Cards = append(snap.Cards, Card{
				ID:            s.ID,
				Titulo:        "Sesión #" + ShortID(s.ID),
				Paciente:      clinic.PatientName(v.patients, s.PacienteID),
				PacienteID:    s.PacienteID,
				Subjetivo:     s.SoapSubj,
				Observaciones: s.Observaciones,
				Archivos:      len(s.Attachments()),
			})
		}
	})
	if len(snap.Cards) == 0 {
		snap.Empty = "No hay sesiones registradas"
	}
	return snap
}
