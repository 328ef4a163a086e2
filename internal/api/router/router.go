package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/psyclinic-dashboard/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/psyclinic-dashboard/internal/http/middleware"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Views              *handlers.ViewsHandler
	Preferences        *handlers.PreferencesHandler
	Health             http.HandlerFunc
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	// WriteLimiter guards POST/PUT/DELETE; nil disables it.
	WriteLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	health := cfg.Health
	if health == nil {
		health = handlers.HealthCheck(nil)
	}
	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	writes := httpmiddleware.RateLimit(cfg.WriteLimiter)

	r.Route("/api", func(api chi.Router) {
		if v := cfg.Views; v != nil {
			api.Route("/views", func(views chi.Router) {
				views.Get("/dashboard", v.GetDashboard)

				views.Route("/agenda", func(agenda chi.Router) {
					agenda.Get("/", v.GetAgenda)
					agenda.With(writes).Post("/citas", v.CreateAppointment)
					agenda.With(writes).Put("/citas/{id}", v.UpdateAppointment)
					agenda.With(writes).Delete("/citas/{id}", v.DeleteAppointment)
				})

				views.Route("/pacientes", func(p chi.Router) {
					p.Get("/", v.GetPatients)
					p.With(writes).Post("/", v.CreatePatient)
					p.With(writes).Put("/{id}", v.UpdatePatient)
					p.With(writes).Delete("/{id}", v.DeletePatient)
				})

				views.Route("/sesiones", func(s chi.Router) {
					s.Get("/", v.GetSessions)
					s.Get("/{id}", v.GetSession)
					s.With(writes).Post("/", v.CreateSession)
					s.With(writes).Put("/{id}", v.UpdateSession)
					s.With(writes).Delete("/{id}", v.DeleteSession)
				})
			})
		}
		if p := cfg.Preferences; p != nil {
			api.Get("/preferences", p.Get)
			api.With(writes).Put("/preferences", p.Put)
		}
	})

	return r
}
