package agenda

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

type fakeAPI struct {
	mu        sync.Mutex
	appts     []clinic.Appointment
	patients  []clinic.Patient
	listErr   error
	deleteErr error
	created   []clinic.AppointmentCreate
	updated   map[string]clinic.AppointmentUpdate
	deleted   []string
	lists     int
}

func (f *fakeAPI) ListAppointments(context.Context) ([]clinic.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return append([]clinic.Appointment(nil), f.appts...), f.listErr
}

func (f *fakeAPI) ListPatients(context.Context) ([]clinic.Patient, error) {
	return f.patients, nil
}

func (f *fakeAPI) CreateAppointment(_ context.Context, in clinic.AppointmentCreate) (*clinic.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	a := clinic.Appointment{ID: "new", PacienteID: in.PacienteID, FechaInicio: in.FechaInicio, FechaFin: in.FechaFin}
	f.appts = append(f.appts, a)
	return &a, nil
}

func (f *fakeAPI) UpdateAppointment(_ context.Context, id string, in clinic.AppointmentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[string]clinic.AppointmentUpdate{}
	}
	f.updated[id] = in
	return nil
}

func (f *fakeAPI) DeleteAppointment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func newFixtureView(t *testing.T) (*View, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{
		appts: fixture()[:4],
		patients: []clinic.Patient{
			{ID: "p1", Nombre: "Lucía", Apellidos: "García"},
			{ID: "p2", Nombre: "Marcos", Apellidos: "Ruiz"},
		},
	}
	v := New(api, Options{
		Location: time.UTC,
		Clock:    func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) },
		Logger:   logging.Discard(),
	})
	require.NoError(t, v.Reload(context.Background()))
	return v, api
}

func TestViewSnapshot(t *testing.T) {
	v, _ := newFixtureView(t)
	v.SetFilter(Filter{PatientID: "p1"})

	snap := v.Snapshot()
	assert.Equal(t, "Citas (3)", snap.Title)
	require.Len(t, snap.Days, 3)
	assert.Equal(t, "Lucía García", snap.Days[0].Citas[0].Paciente)
	assert.Equal(t, "09:00 - 09:00", snap.Days[0].Citas[0].Horario)
	assert.Equal(t, "pendiente", snap.Days[0].Citas[0].Estado)
	assert.Equal(t, "presencial", snap.Days[0].Citas[0].Modo)
	assert.Len(t, snap.Pacientes, 2)
}

func TestViewEmpty(t *testing.T) {
	v := New(&fakeAPI{}, Options{Logger: logging.Discard()})
	require.NoError(t, v.Reload(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, "No hay citas registradas", snap.Empty)
	assert.Equal(t, "Citas (0)", snap.Title)
}

func TestViewReloadFailure(t *testing.T) {
	v, api := newFixtureView(t)
	api.listErr = errors.New("API Error: 503 - down")

	require.Error(t, v.Reload(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, loadErrorMessage, snap.Error)
	assert.Equal(t, 4, snap.Total, "previous collections stay in place")
}

func TestViewDeleteIsOptimistic(t *testing.T) {
	v, api := newFixtureView(t)
	// The fake keeps listing a2; only the local filter removes it.
	deleted, err := v.Delete(context.Background(), "a2", confirm.Always(true))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"a2"}, api.deleted)
	assert.Equal(t, 3, v.Snapshot().Total)
}

func TestViewDeleteRequiresConfirmation(t *testing.T) {
	v, api := newFixtureView(t)
	var asked string
	refuse := confirm.Func(func(_ context.Context, q string) (bool, error) {
		asked = q
		return false, nil
	})

	deleted, err := v.Delete(context.Background(), "a2", refuse)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, DeleteQuestion, asked)
	assert.Empty(t, api.deleted)
	assert.Equal(t, 4, v.Snapshot().Total)
}

func TestViewDeleteFailureKeepsRow(t *testing.T) {
	v, api := newFixtureView(t)
	api.deleteErr = errors.New("API Error: 500 - boom")

	deleted, err := v.Delete(context.Background(), "a2", confirm.Always(true))
	require.Error(t, err)
	assert.False(t, deleted)
	snap := v.Snapshot()
	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, deleteErrorMessage, snap.Error)
}

func TestViewCreateDialogReloads(t *testing.T) {
	v, api := newFixtureView(t)
	listsBefore := api.lists

	v.OpenCreate()
	v.CreateDialog().Edit(func(d *forms.AppointmentDraft) {
		d.PacienteID = "p2"
		d.Fecha = "2026-10-20"
		d.UbicacionLink = "Consulta 1"
	})
	require.NoError(t, v.CreateDialog().Submit(context.Background()))

	require.Len(t, api.created, 1)
	assert.Equal(t, "2026-10-20T10:00:00.000Z", api.created[0].FechaInicio)
	assert.Equal(t, "2026-10-20T11:00:00.000Z", api.created[0].FechaFin)
	assert.Greater(t, api.lists, listsBefore)
	assert.Equal(t, 5, v.Snapshot().Total)
	assert.False(t, v.CreateDialog().IsOpen())
}

func TestViewEditDialog(t *testing.T) {
	v, api := newFixtureView(t)
	require.ErrorIs(t, v.OpenEdit("missing"), ErrNotFound)

	require.NoError(t, v.OpenEdit("a2"))
	draft := v.EditDialog().Draft()
	assert.Equal(t, "2026-10-15", draft.Fecha)
	assert.Equal(t, "08:00", draft.HoraInicio)

	v.EditDialog().Edit(func(d *EditDraft) {
		d.HoraFin = "08:10"
		d.UbicacionLink = "Consulta 1"
	})
	err := v.EditDialog().Submit(context.Background())
	assert.ErrorIs(t, err, forms.ErrMinDuration)
	assert.Empty(t, api.updated)

	v.EditDialog().Edit(func(d *EditDraft) { d.HoraFin = "09:00" })
	require.NoError(t, v.EditDialog().Submit(context.Background()))
	upd := api.updated["a2"]
	require.NotNil(t, upd.FechaFin)
	assert.Equal(t, "2026-10-15T09:00:00.000Z", *upd.FechaFin)
}
