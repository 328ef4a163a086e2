package patients

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

var now = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

type fakeAPI struct {
	patients  []clinic.Patient
	listErr   error
	deleteErr error
	created   []clinic.PatientCreate
	updated   map[string]clinic.PatientUpdate
	deleted   []string
}

func (f *fakeAPI) ListPatients(context.Context) ([]clinic.Patient, error) {
	return append([]clinic.Patient(nil), f.patients...), f.listErr
}

func (f *fakeAPI) CreatePatient(_ context.Context, in clinic.PatientCreate) (*clinic.Patient, error) {
	f.created = append(f.created, in)
	p := clinic.Patient{ID: "p-new", Nombre: in.Nombre, Apellidos: in.Apellidos, TagsJSON: in.TagsJSON}
	f.patients = append(f.patients, p)
	return &p, nil
}

func (f *fakeAPI) UpdatePatient(_ context.Context, id string, in clinic.PatientUpdate) error {
	if f.updated == nil {
		f.updated = map[string]clinic.PatientUpdate{}
	}
	f.updated[id] = in
	return nil
}

func (f *fakeAPI) DeletePatient(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func newFixtureView(t *testing.T) (*View, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{patients: roster()}
	api.patients[0].TagsJSON = `["ansiedad"]`
	api.patients[0].FechaNacimiento = "1990-04-12T00:00:00Z"
	api.patients[1].TagsJSON = `not json`
	v := New(api, Options{
		APIBaseURL: "https://localhost:7224",
		Clock:      func() time.Time { return now },
		Logger:     logging.Discard(),
	})
	require.NoError(t, v.Reload(context.Background()))
	return v, api
}

func TestViewSnapshotRows(t *testing.T) {
	v, _ := newFixtureView(t)
	snap := v.Snapshot()

	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "Lucía García López", snap.Rows[0].Nombre)
	assert.Equal(t, []string{"ansiedad"}, snap.Rows[0].Tags)
	assert.Equal(t, "12 de abril de 1990", snap.Rows[0].FechaNacimiento)
	assert.Equal(t, []string{}, snap.Rows[1].Tags)

	v.SetSearch("marcos")
	snap = v.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "p2", snap.Rows[0].ID)
}

func TestViewLoadErrorMessage(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("API Error: 500 - boom")}
	v := New(api, Options{APIBaseURL: "https://localhost:7224", Logger: logging.Discard()})

	require.Error(t, v.Reload(context.Background()))
	msg := v.Snapshot().Error
	assert.True(t, strings.HasPrefix(msg, "No se pudieron cargar los pacientes. Verifica que el servidor está corriendo en https://localhost:7224."))
	assert.True(t, strings.HasSuffix(msg, "Error: API Error: 500 - boom"))
}

func TestViewDeleteRemovesExactlyOne(t *testing.T) {
	v, api := newFixtureView(t)

	deleted, err := v.Delete(context.Background(), "p1", confirm.Always(true))
	require.NoError(t, err)
	assert.True(t, deleted)

	rows := v.Snapshot().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "p2", rows[0].ID)
	assert.Len(t, api.patients, 2, "server side is untouched by the fake; only the local list changed")
}

func TestViewDeleteFailure(t *testing.T) {
	v, api := newFixtureView(t)
	api.deleteErr = errors.New("API Error: 409 - tiene citas")

	_, err := v.Delete(context.Background(), "p1", confirm.Always(true))
	require.Error(t, err)
	snap := v.Snapshot()
	assert.Equal(t, "Error al eliminar el paciente", snap.Error)
	assert.Len(t, snap.Rows, 2)
}

func TestViewCreateDialog(t *testing.T) {
	v, api := newFixtureView(t)
	v.OpenCreate()
	v.CreateDialog().Edit(func(d *forms.PatientDraft) {
		d.Nombre = "Ana"
		d.Apellidos = "Sanz"
		d.Email = "not-an-email"
		d.Telefono = "612345678"
		d.ContactoEmergencia = "698765432"
		d.AddTag("duelo")
	})

	assert.ErrorIs(t, v.CreateDialog().Submit(context.Background()), forms.ErrInvalidEmail)
	assert.Empty(t, api.created)

	v.CreateDialog().Edit(func(d *forms.PatientDraft) { d.Email = "ana@example.com" })
	require.NoError(t, v.CreateDialog().Submit(context.Background()))
	require.Len(t, api.created, 1)
	assert.Equal(t, `["duelo"]`, api.created[0].TagsJSON)
	assert.Equal(t, "2026-10-15T09:00:00.000Z", api.created[0].FechaNacimiento)
	assert.Len(t, v.Snapshot().Rows, 3)
}

func TestViewEditDialog(t *testing.T) {
	v, api := newFixtureView(t)
	require.ErrorIs(t, v.OpenEdit("nope"), ErrNotFound)
	require.NoError(t, v.OpenEdit("p1"))

	v.EditDialog().Edit(func(d *EditDraft) {
		d.ContactoEmergencia = "600111222"
		d.FechaNacimiento = ""
	})
	require.NoError(t, v.EditDialog().Submit(context.Background()))

	upd := api.updated["p1"]
	require.NotNil(t, upd.FechaNacimiento)
	assert.Equal(t, "1990-04-12T00:00:00Z", *upd.FechaNacimiento)
	assert.Equal(t, "600111222", *upd.ContactoEmergencia)
}
