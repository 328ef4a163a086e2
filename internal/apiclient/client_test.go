package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/psyclinic-dashboard/internal/clinic"
	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(Options{
		BaseURL: ts.URL + "/",
		Logger:  logging.Discard(),
		Metrics: metrics.NewAPIClientMetrics(prometheus.NewRegistry()),
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_ListPatients_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/Pacientes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusOK, `[{"id":"p1","nombre":"Lucía","apellidos":"García","tagsJson":"[\"ansiedad\"]"}]`)
	})

	patients, err := client.ListPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "Lucía García", patients[0].FullName())
	assert.Equal(t, []string{"ansiedad"}, patients[0].Tags())
}

func TestClient_ListAppointments_NullIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `null`)
	})

	appts, err := client.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, appts)
	assert.Empty(t, appts)
}

func TestClient_NonJSONResponseIsAbsent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)

	created, err := client.CreateSession(context.Background(), clinic.SessionCreate{PacienteID: "p1"})
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestClient_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "paciente no encontrado", http.StatusNotFound)
	})

	err := client.DeletePatient(context.Background(), "p404")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Error(), "API Error: 404 - paciente no encontrado")
	assert.True(t, IsNotFound(err))
}

func TestClient_StatusErrorKeepsWholeBody(t *testing.T) {
	body := strings.Repeat("x", 5000)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, body)
	})

	err := client.DeletePatient(context.Background(), "p1")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, body, se.Body)
}

func TestClient_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":`)
	})

	_, err := client.ListPatients(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := New(Options{BaseURL: url, Logger: logging.Discard()})
	_, err := client.ListSessions(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_CreateAppointment_SendsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Cita", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"pacienteId":"p1",
			"fechaInicio":"2026-10-20T08:00:00.000Z",
			"fechaFin":"2026-10-20T09:00:00.000Z",
			"modo":1,
			"estado":0,
			"ubicacionLink":"https://meet.example.com/abc",
			"notas":null
		}`, string(raw))
		writeJSON(w, http.StatusCreated, `{"id":"c1","pacienteId":"p1"}`)
	})

	link := "https://meet.example.com/abc"
	created, err := client.CreateAppointment(context.Background(), clinic.AppointmentCreate{
		PacienteID:    "p1",
		FechaInicio:   "2026-10-20T08:00:00.000Z",
		FechaFin:      "2026-10-20T09:00:00.000Z",
		Modo:          clinic.Online,
		Estado:        clinic.Pendiente,
		UbicacionLink: &link,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "c1", created.ID)
}

func TestClient_UpdateSession_EscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/Sesion/a%2Fb", r.URL.EscapedPath())
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["pacienteId"])
		assert.NotContains(t, body, "archivosJson")
		w.WriteHeader(http.StatusNoContent)
	})

	pid, subj := "p1", "Refiere mejoría"
	err := client.UpdateSession(context.Background(), "a/b", clinic.SessionUpdate{PacienteID: &pid, SoapSubj: &subj})
	require.NoError(t, err)
}

func TestClient_Summary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboard/summary", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"totalPacientes":4,"totalSesiones":10}`)
	})

	summary, err := client.Summary(context.Background())
	require.NoError(t, err)
	v, ok := summary.Value(clinic.SummaryTotalSessions)
	assert.True(t, ok)
	assert.Equal(t, "10", v)
}

func TestClient_DefaultBaseURL(t *testing.T) {
	client := New(Options{})
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "Pacientes", resourceOf("/Pacientes/abc"))
	assert.Equal(t, "dashboard", resourceOf("/dashboard/summary"))
	assert.Equal(t, "Cita", resourceOf("/Cita?x=1"))
	assert.Equal(t, "root", resourceOf("/"))
}
