package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/psyclinic-dashboard/internal/agenda"
	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
)

// GetAgenda returns the filtered appointments grouped by day.
// GET /api/views/agenda
// Query params:
//   - paciente: patient id
//   - estado: status code, "todos" or empty
//   - desde, hasta: YYYY-MM-DD bounds, inclusive
func (h *ViewsHandler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := agenda.ParseFilter(q.Get("paciente"), q.Get("estado"), q.Get("desde"), q.Get("hasta"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	v := h.views.Agenda()
	v.SetFilter(filter)
	if err := v.Reload(r.Context()); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// CreateAppointment submits the create dialog with the posted draft.
// POST /api/views/agenda/citas
func (h *ViewsHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	v := h.views.Agenda()
	v.OpenCreate()

	var decodeErr error
	v.CreateDialog().Edit(func(d *forms.AppointmentDraft) { decodeErr = decodeBody(r, d) })
	if decodeErr != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := v.CreateDialog().Submit(r.Context()); err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v.Snapshot())
}

// UpdateAppointment loads the appointment into the edit dialog, applies the
// posted fields on top and submits.
// PUT /api/views/agenda/citas/{id}
func (h *ViewsHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v := h.views.Agenda()
	if err := v.Reload(r.Context()); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	if err := v.OpenEdit(id); err != nil {
		if errors.Is(err, agenda.ErrNotFound) {
			jsonError(w, "cita no encontrada", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var decodeErr error
	v.EditDialog().Edit(func(d *agenda.EditDraft) { decodeErr = decodeBody(r, &d.AppointmentDraft) })
	if decodeErr != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := v.EditDialog().Submit(r.Context()); err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// DeleteAppointment cancels an appointment.
// DELETE /api/views/agenda/citas/{id}?confirm=true
func (h *ViewsHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r, agenda.DeleteQuestion) {
		return
	}
	v := h.views.Agenda()
	if _, err := v.Delete(r.Context(), chi.URLParam(r, "id"), confirm.Always(true)); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
