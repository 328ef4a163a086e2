package sessions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

type fakeAPI struct {
	sessions []clinic.Session
	patients []clinic.Patient
	listErr  error
	created  []clinic.SessionCreate
	updated  map[string]clinic.SessionUpdate
	deleted  []string
}

func (f *fakeAPI) ListSessions(context.Context) ([]clinic.Session, error) {
	return append([]clinic.Session(nil), f.sessions...), f.listErr
}

func (f *fakeAPI) ListPatients(context.Context) ([]clinic.Patient, error) {
	return f.patients, nil
}

func (f *fakeAPI) CreateSession(_ context.Context, in clinic.SessionCreate) (*clinic.Session, error) {
	f.created = append(f.created, in)
	s := clinic.Session{ID: "s-new", PacienteID: in.PacienteID, ArchivosJSON: in.ArchivosJSON}
	f.sessions = append(f.sessions, s)
	return &s, nil
}

func (f *fakeAPI) UpdateSession(_ context.Context, id string, in clinic.SessionUpdate) error {
	if f.updated == nil {
		f.updated = map[string]clinic.SessionUpdate{}
	}
	f.updated[id] = in
	return nil
}

func (f *fakeAPI) DeleteSession(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newFixtureView(t *testing.T) (*View, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{
		sessions: []clinic.Session{
			{ID: "0123456789abcdef", PacienteID: "p1", SoapSubj: "Refiere insomnio", ArchivosJSON: `[{"nombre":"test.pdf","url":"https://f.example.com/test.pdf"}]`},
			{ID: "s2", PacienteID: "p2", Observaciones: "Afecto plano", ArchivosJSON: "{broken"},
			{ID: "s3", PacienteID: "ghost"},
		},
		patients: []clinic.Patient{
			{ID: "p1", Nombre: "Lucía", Apellidos: "García"},
			{ID: "p2", Nombre: "Marcos", Apellidos: "Ruiz"},
		},
	}
	v := New(api, Options{Logger: logging.Discard()})
	require.NoError(t, v.Reload(context.Background()))
	return v, api
}

func TestViewSnapshotCards(t *testing.T) {
	v, _ := newFixtureView(t)
	snap := v.Snapshot()

	require.Len(t, snap.Cards, 3)
	assert.Equal(t, "Sesión #01234567", snap.Cards[0].Titulo)
	assert.Equal(t, "Lucía García", snap.Cards[0].Paciente)
	assert.Equal(t, 1, snap.Cards[0].Archivos)
	assert.Equal(t, 0, snap.Cards[1].Archivos)
	assert.Equal(t, clinic.UnknownPatient, snap.Cards[2].Paciente)
}

func TestViewSearchByPatientName(t *testing.T) {
	v, _ := newFixtureView(t)
	v.SetSearch("RUIZ")
	snap := v.Snapshot()
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, "s2", snap.Cards[0].ID)

	v.SetSearch("desconocido")
	snap = v.Snapshot()
	require.Len(t, snap.Cards, 1)
	assert.Equal(t, "s3", snap.Cards[0].ID)
}

func TestViewDetail(t *testing.T) {
	v, _ := newFixtureView(t)
	d, err := v.Detail("s2")
	require.NoError(t, err)

	require.Len(t, d.Sections, 4)
	assert.Equal(t, NoInformation, d.Sections[0].Content)
	assert.Equal(t, "Afecto plano", d.Sections[1].Content)
	assert.Equal(t, "P", d.Sections[3].Letter)
	assert.Empty(t, d.Archivos)

	_, err = v.Detail("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewCreateRequiresPatient(t *testing.T) {
	v, api := newFixtureView(t)
	v.OpenCreate()

	err := v.CreateDialog().Submit(context.Background())
	assert.ErrorIs(t, err, forms.ErrPatientRequired)
	assert.Empty(t, api.created)

	var addErr error
	v.CreateDialog().Edit(func(d *forms.SessionDraft) {
		d.PacienteID = "p2"
		addErr = d.AddAttachment(context.Background(), forms.URLInput{URL: "https://f.example.com/docs/escala.pdf"})
	})
	require.NoError(t, addErr)
	require.NoError(t, v.CreateDialog().Submit(context.Background()))

	require.Len(t, api.created, 1)
	assert.Equal(t, `[{"nombre":"escala.pdf","url":"https://f.example.com/docs/escala.pdf"}]`, api.created[0].ArchivosJSON)
	assert.Len(t, v.Snapshot().Cards, 4)
}

func TestViewEditSOAP(t *testing.T) {
	v, api := newFixtureView(t)
	require.NoError(t, v.OpenEdit("0123456789abcdef"))
	v.EditDialog().Edit(func(d *EditDraft) { d.Analisis = "Trastorno adaptativo" })
	require.NoError(t, v.EditDialog().Submit(context.Background()))

	upd := api.updated["0123456789abcdef"]
	assert.Equal(t, "p1", *upd.PacienteID)
	assert.Equal(t, "Trastorno adaptativo", *upd.Analisis)
	assert.Equal(t, "Refiere insomnio", *upd.SoapSubj)
	assert.Nil(t, upd.ArchivosJSON)
}

func TestViewDelete(t *testing.T) {
	v, api := newFixtureView(t)
	deleted, err := v.Delete(context.Background(), "s2", confirm.Always(true))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"s2"}, api.deleted)
	assert.Len(t, v.Snapshot().Cards, 2)
}

func TestViewReloadFailure(t *testing.T) {
	v, api := newFixtureView(t)
	api.listErr = errors.New("dial tcp: connection refused")
	require.Error(t, v.Reload(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, loadErrorMessage, snap.Error)
	assert.Len(t, snap.Cards, 3)
}
