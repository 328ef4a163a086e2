package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/psyclinic-dashboard/internal/agenda"
	"github.com/wolfman30/psyclinic-dashboard/internal/apiclient"
	appconfig "github.com/wolfman30/psyclinic-dashboard/internal/config"
	"github.com/wolfman30/psyclinic-dashboard/internal/dashboard"
	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/internal/patients"
	"github.com/wolfman30/psyclinic-dashboard/internal/preferences"
	"github.com/wolfman30/psyclinic-dashboard/internal/sessions"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildPreferencesStore returns the Redis-backed store when Redis is
// available and an in-memory store otherwise.
func BuildPreferencesStore(redisClient *redis.Client, cfg *appconfig.Config, logger *logging.Logger) preferences.Store {
	defaults := preferences.Defaults(cfg.UpcomingStatuses, cfg.UpcomingLimit)
	if redisClient == nil {
		return preferences.NewMemoryStore(defaults)
	}
	return preferences.NewRedisStore(redisClient, defaults, logger)
}

// BuildLocation resolves the clinic timezone, logging and falling back to UTC.
func BuildLocation(cfg *appconfig.Config, logger *logging.Logger) *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		if logger == nil {
			logger = logging.Default()
		}
		logger.Warn("invalid clinic timezone, using UTC", "timezone", cfg.Timezone, "error", err)
	}
	return loc
}

// Runtime is the single configured API client plus everything the views
// share. Views are built fresh per request or command.
type Runtime struct {
	Config      *appconfig.Config
	Logger      *logging.Logger
	Location    *time.Location
	Client      *apiclient.Client
	Preferences preferences.Store
	ViewMetrics *metrics.ViewMetrics
	Clock       func() time.Time
}

// NewRuntime wires the API client and metrics. reg may be nil for the
// default Prometheus registry.
func NewRuntime(cfg *appconfig.Config, logger *logging.Logger, prefs preferences.Store, reg prometheus.Registerer) *Runtime {
	if logger == nil {
		logger = logging.Default()
	}
	client := apiclient.New(apiclient.Options{
		BaseURL:            cfg.APIBaseURL,
		Timeout:            cfg.APITimeout,
		InsecureSkipVerify: cfg.APIInsecureSkipVerify,
		Logger:             logger,
		Metrics:            metrics.NewAPIClientMetrics(reg),
	})
	if prefs == nil {
		prefs = preferences.NewMemoryStore(preferences.Defaults(cfg.UpcomingStatuses, cfg.UpcomingLimit))
	}
	return &Runtime{
		Config:      cfg,
		Logger:      logger,
		Location:    BuildLocation(cfg, logger),
		Client:      client,
		Preferences: prefs,
		ViewMetrics: metrics.NewViewMetrics(reg),
		Clock:       time.Now,
	}
}

// Dashboard builds the dashboard view. An empty status list keeps the
// default Pendiente/Confirmada predicate.
func (r *Runtime) Dashboard(p preferences.Preferences) *dashboard.View {
	var pred dashboard.Predicate
	if len(p.UpcomingStatuses) > 0 {
		pred = dashboard.StatusIn(p.UpcomingStatuses...)
	}
	return dashboard.New(r.Client, dashboard.Options{
		Predicate: pred,
		Limit:     p.UpcomingLimit,
		Location:  r.Location,
		Clock:     r.Clock,
		Logger:    r.Logger,
		Metrics:   r.ViewMetrics,
	})
}

func (r *Runtime) Agenda() *agenda.View {
	return agenda.New(r.Client, agenda.Options{
		Location: r.Location,
		Clock:    r.Clock,
		Logger:   r.Logger,
		Metrics:  r.ViewMetrics,
	})
}

func (r *Runtime) Patients() *patients.View {
	return patients.New(r.Client, patients.Options{
		APIBaseURL: r.Client.BaseURL(),
		Clock:      r.Clock,
		Logger:     r.Logger,
		Metrics:    r.ViewMetrics,
	})
}

func (r *Runtime) Sessions() *sessions.View {
	return sessions.New(r.Client, sessions.Options{
		Clock:   r.Clock,
		Logger:  r.Logger,
		Metrics: r.ViewMetrics,
	})
}
