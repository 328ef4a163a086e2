package handlers

import (
	"github.com/wolfman30/psyclinic-dashboard/internal/agenda"
	"github.com/wolfman30/psyclinic-dashboard/internal/dashboard"
	"github.com/wolfman30/psyclinic-dashboard/internal/patients"
	"github.com/wolfman30/psyclinic-dashboard/internal/preferences"
	"github.com/wolfman30/psyclinic-dashboard/internal/sessions"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// ViewFactory mounts a fresh view per request, all sharing one API client.
type ViewFactory interface {
	Dashboard(p preferences.Preferences) *dashboard.View
	Agenda() *agenda.View
	Patients() *patients.View
	Sessions() *sessions.View
}

// ViewsHandler serves the dashboard, agenda, patients and sessions views.
type ViewsHandler struct {
	views  ViewFactory
	prefs  preferences.Store
	logger *logging.Logger
}

func NewViewsHandler(views ViewFactory, prefs preferences.Store, logger *logging.Logger) *ViewsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ViewsHandler{views: views, prefs: prefs, logger: logger}
}
