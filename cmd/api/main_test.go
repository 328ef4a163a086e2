package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/psyclinic-dashboard/internal/app/bootstrap"
	appconfig "github.com/wolfman30/psyclinic-dashboard/internal/config"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

func TestSetupMetricsExposesClientMetrics(t *testing.T) {
	reg, handler := setupMetrics()
	if reg == nil || handler == nil {
		t.Fatalf("expected non-nil registry and handler")
	}

	cfg := appconfig.Defaults()
	bootstrap.NewRuntime(cfg, logging.New("error"), nil, reg).ViewMetrics.ObserveReload("agenda", false, 0.01)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "psyclinic_views_reloads_total") {
		t.Fatalf("expected reload counter to be exported")
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatalf("expected go collector metrics")
	}
}

func TestBuildRouterServesHealth(t *testing.T) {
	cfg := appconfig.Defaults()
	cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
	reg, metricsHandler := setupMetrics()
	rt := bootstrap.NewRuntime(cfg, logging.New("error"), nil, reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := buildRouter(ctx, cfg, rt, metricsHandler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected CORS header, got %q", got)
	}
}
