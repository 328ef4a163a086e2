package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/internal/patients"
)

// GetPatients returns the patient rows, optionally searched with ?q=.
func (h *ViewsHandler) GetPatients(w http.ResponseWriter, r *http.Request) {
	v := h.views.Patients()
	v.SetSearch(r.URL.Query().Get("q"))
	if err := v.Reload(r.Context()); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// CreatePatient submits the create dialog with the posted draft.
func (h *ViewsHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	v := h.views.Patients()
	v.OpenCreate()

	var decodeErr error
	v.CreateDialog().Edit(func(d *forms.PatientDraft) { decodeErr = decodeBody(r, d) })
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

// UpdatePatient applies the posted fields over the stored patient. An empty
// fechaNacimiento keeps the stored birth date.
func (h *ViewsHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v := h.views.Patients()
	if err := v.Reload(r.Context()); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	if err := v.OpenEdit(id); err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			jsonError(w, "paciente no encontrado", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var decodeErr error
	v.EditDialog().Edit(func(d *patients.EditDraft) { decodeErr = decodeBody(r, &d.PatientDraft) })
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

func (h *ViewsHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r, patients.DeleteQuestion) {
		return
	}
	v := h.views.Patients()
	if _, err := v.Delete(r.Context(), chi.URLParam(r, "id"), confirm.Always(true)); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
