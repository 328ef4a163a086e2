package handlers

import (
	"errors"
	"net/http"

	"github.com/wolfman30/psyclinic-dashboard/internal/preferences"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// PreferencesHandler reads and writes the practitioner preferences.
type PreferencesHandler struct {
	store  preferences.Store
	logger *logging.Logger
}

func NewPreferencesHandler(store preferences.Store, logger *logging.Logger) *PreferencesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PreferencesHandler{store: store, logger: logger}
}

// Get returns the preferences of the X-Profile profile.
// GET /api/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile := profileOf(r)
	p, err := h.store.Get(r.Context(), profile)
	if err != nil {
		h.logger.Error("failed to load preferences", "profile", profile, "error", err)
		jsonError(w, "preferences unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Put replaces the preferences; omitted fields keep their current value.
// PUT /api/preferences
func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	profile := profileOf(r)
	p, err := h.store.Get(r.Context(), profile)
	if err != nil {
		h.logger.Error("failed to load preferences", "profile", profile, "error", err)
		jsonError(w, "preferences unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := decodeBody(r, &p); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.store.Set(r.Context(), profile, p); err != nil {
		if errors.Is(err, preferences.ErrInvalidLimit) || errors.Is(err, preferences.ErrInvalidStatus) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("failed to save preferences", "profile", profile, "error", err)
		jsonError(w, "preferences unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
