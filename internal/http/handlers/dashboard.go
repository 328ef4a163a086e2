package handlers

import (
	"net/http"
)

// GetDashboard returns the stat cards and upcoming appointments.
// GET /api/views/dashboard
func (h *ViewsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	profile := profileOf(r)
	prefs, err := h.prefs.Get(r.Context(), profile)
	if err != nil {
		h.logger.Warn("preferences unavailable, using defaults", "profile", profile, "error", err)
	}

	v := h.views.Dashboard(prefs)
	if err := v.Reload(r.Context()); err != nil {
		h.logger.Error("dashboard reload failed", "error", err)
		reloadFailed(w, v.Snapshot().Error)
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}
