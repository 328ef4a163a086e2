package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/psyclinic-dashboard/internal/api/router"
	"github.com/wolfman30/psyclinic-dashboard/internal/app/bootstrap"
	appconfig "github.com/wolfman30/psyclinic-dashboard/internal/config"
	"github.com/wolfman30/psyclinic-dashboard/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/psyclinic-dashboard/internal/http/middleware"
	"github.com/wolfman30/psyclinic-dashboard/internal/preferences"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting psyclinic dashboard server",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	prefs := bootstrap.BuildPreferencesStore(redisClient, cfg, logger)

	reg, metricsHandler := setupMetrics()
	rt := bootstrap.NewRuntime(cfg, logger, prefs, reg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      buildRouter(ctx, cfg, rt, metricsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics returns a registry carrying the Go and process collectors and
// the handler exposing it.
func setupMetrics() (*prometheus.Registry, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func buildRouter(ctx context.Context, cfg *appconfig.Config, rt *bootstrap.Runtime, metricsHandler http.Handler) http.Handler {
	var pinger handlers.Pinger
	if p, ok := rt.Preferences.(*preferences.RedisStore); ok {
		pinger = p
	}
	var limiter *httpmiddleware.RateLimiter
	if cfg.WriteRateLimit > 0 {
		limiter = httpmiddleware.NewRateLimiter(ctx, cfg.WriteRateLimit, max(cfg.WriteRateBurst, 1))
	}
	return router.New(&router.Config{
		Logger:             rt.Logger,
		Views:              handlers.NewViewsHandler(rt, rt.Preferences, rt.Logger),
		Preferences:        handlers.NewPreferencesHandler(rt.Preferences, rt.Logger),
		Health:             handlers.HealthCheck(pinger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		WriteLimiter:       limiter,
	})
}
