package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/psyclinic-dashboard/internal/confirm"
	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	"github.com/wolfman30/psyclinic-dashboard/internal/sessions"
)

func (h *ViewsHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	v := h.views.Sessions()
	v.SetSearch(r.URL.Query().Get("q"))
	if err := v.Reload(r.Context()); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// GetSession returns the SOAP detail of one session.
// GET /api/views/sesiones/{id}
func (h *ViewsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	v := h.views.Sessions()
	if err := v.Reload(r.Context()); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	detail, err := v.Detail(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "sesión no encontrada", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// CreateSession submits a new session. Posted archivos are re-validated as
// http(s) links.
func (h *ViewsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	v := h.views.Sessions()
	v.OpenCreate()

	var decodeErr, attachErr error
	v.CreateDialog().Edit(func(d *forms.SessionDraft) {
		if decodeErr = decodeBody(r, d); decodeErr != nil {
			return
		}
		posted := d.Archivos
		d.Archivos = nil
		for _, a := range posted {
			if attachErr = d.AddAttachment(r.Context(), forms.URLInput{URL: a.URL, Nombre: a.Nombre}); attachErr != nil {
				return
			}
		}
	})
	if decodeErr != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if attachErr != nil {
		writeSubmitError(w, attachErr)
		return
	}
	if err := v.CreateDialog().Submit(r.Context()); err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v.Snapshot())
}

// UpdateSession edits the SOAP sections; attachments are left untouched.
// PUT /api/views/sesiones/{id}
func (h *ViewsHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v := h.views.Sessions()
	if err := v.Reload(r.Context()); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	if err := v.OpenEdit(id); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			jsonError(w, "sesión no encontrada", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var decodeErr error
	v.EditDialog().Edit(func(d *sessions.EditDraft) { decodeErr = decodeBody(r, &d.SOAPDraft) })
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

func (h *ViewsHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !requireConfirm(w, r, sessions.DeleteQuestion) {
		return
	}
	v := h.views.Sessions()
	if _, err := v.Delete(r.Context(), chi.URLParam(r, "id"), confirm.Always(true)); err != nil {
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
