package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeClinicAPI is an in-memory stand-in for the clinic REST API.
type fakeClinicAPI struct {
	mu         sync.Mutex
	collection map[string][]map[string]any
	requests   []recordedRequest
	failLists  bool
	nextID     int
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeClinicAPI(t *testing.T) (*fakeClinicAPI, *httptest.Server) {
	t.Helper()
	f := &fakeClinicAPI{collection: map[string][]map[string]any{
		"Pacientes": {
			{"id": "p1", "nombre": "Lucía", "apellidos": "García", "email": "lucia@example.com", "telefono": "600111222", "contactoEmergencia": "600333444", "tagsJson": `["ansiedad"]`, "fechaNacimiento": "1990-05-04T00:00:00.000Z"},
			{"id": "p2", "nombre": "Marcos", "apellidos": "Ruiz", "email": "marcos@example.com", "telefono": "611222333", "contactoEmergencia": "611444555", "tagsJson": "", "fechaNacimiento": "1985-01-20T00:00:00.000Z"},
		},
		"Cita": {
			{"id": "c1", "pacienteId": "p1", "fechaInicio": "2099-03-10T09:00:00.000Z", "fechaFin": "2099-03-10T10:00:00.000Z", "modo": 1, "estado": 0, "ubicacionLink": "https://meet.example.com/x", "notas": nil},
			{"id": "c2", "pacienteId": "p2", "fechaInicio": "2099-03-11T15:00:00.000Z", "fechaFin": "2099-03-11T16:00:00.000Z", "modo": 0, "estado": 2, "ubicacionLink": "Consulta 2", "notas": "Reprogramar"},
		},
		"Sesion": {
			{"id": "s1", "pacienteId": "p1", "soapSubj": "Refiere insomnio", "observaciones": "", "analasis": "", "planAccion": "", "archivosJson": `[{"nombre":"escala.pdf","url":"https://f.example.com/escala.pdf"}]`},
		},
	}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeClinicAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	f.requests = append(f.requests, rec)

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/"), "/")
	if parts[0] == "dashboard" {
		writeFakeJSON(w, map[string]any{"totalPacientes": len(f.collection["Pacientes"]), "citasHoy": 0, "totalSesiones": len(f.collection["Sesion"]), "proximaCita": nil})
		return
	}
	items, ok := f.collection[parts[0]]
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == http.MethodGet && len(parts) == 1:
		if f.failLists {
			http.Error(w, "database offline", http.StatusInternalServerError)
			return
		}
		writeFakeJSON(w, items)
	case r.Method == http.MethodPost && len(parts) == 1:
		f.nextID++
		created := map[string]any{"id": "new-" + strconv.Itoa(f.nextID)}
		for k, v := range rec.Body {
			created[k] = v
		}
		f.collection[parts[0]] = append(items, created)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeFakeJSON(w, created)
	case r.Method == http.MethodPut && len(parts) == 2:
		for _, it := range items {
			if it["id"] == parts[1] {
				for k, v := range rec.Body {
					it[k] = v
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)
	case r.Method == http.MethodDelete && len(parts) == 2:
		out := items[:0]
		for _, it := range items {
			if it["id"] != parts[1] {
				out = append(out, it)
			}
		}
		f.collection[parts[0]] = out
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func (f *fakeClinicAPI) lastWrite(method string) *recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Method == method {
			return &f.requests[i]
		}
	}
	return nil
}

func (f *fakeClinicAPI) countWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method != http.MethodGet {
			n++
		}
	}
	return n
}

func writeFakeJSON(w http.ResponseWriter, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	_ = json.NewEncoder(w).Encode(v)
}
