package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/wolfman30/psyclinic-dashboard/internal/forms"
	httpmiddleware "github.com/wolfman30/psyclinic-dashboard/internal/http/middleware"
	"github.com/wolfman30/psyclinic-dashboard/internal/preferences"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Question string `json:"question,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody reads a JSON body into dst, which may already hold values that
// absent fields should keep.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeSubmitError maps a dialog submit failure: validation → 422,
// API rejection → 502.
func writeSubmitError(w http.ResponseWriter, err error) {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Field: verr.Field})
		return
	}
	var serr *forms.SubmitError
	if errors.As(err, &serr) {
		jsonError(w, serr.Message, http.StatusBadGateway)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

// reloadFailed answers 502 with the view's user-facing message.
func reloadFailed(w http.ResponseWriter, viewMsg string) {
	if viewMsg == "" {
		viewMsg = "No se pudo contactar con el servidor"
	}
	jsonError(w, viewMsg, http.StatusBadGateway)
}

// confirmed reports whether the caller acknowledged a destructive action.
func confirmed(r *http.Request) bool {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("confirm"))) {
	case "true", "1", "si", "sí", "yes":
		return true
	}
	return false
}

func requireConfirm(w http.ResponseWriter, r *http.Request, question string) bool {
	if confirmed(r) {
		return true
	}
	writeJSON(w, http.StatusPreconditionRequired, errorResponse{
		Error:    "Confirmación requerida: añade ?confirm=true",
		Question: question,
	})
	return false
}

func profileOf(r *http.Request) string {
	if p := strings.TrimSpace(r.Header.Get(httpmiddleware.ProfileHeader)); p != "" {
		return p
	}
	return preferences.DefaultProfile
}
