package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info", "text")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/views/agenda", nil)
	rec := httptest.NewRecorder()

	chimw.RequestID(RequestLogger(logger)(handler)).ServeHTTP(rec, req)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "status=502") {
		t.Fatalf("expected warn line with status, got %q", out)
	}
	if !strings.Contains(out, "path=/api/views/agenda") {
		t.Fatalf("expected path attribute, got %q", out)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info", "text")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()

	RequestLogger(logger)(handler).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("expected incoming request id, got %q", got)
	}
	if !strings.Contains(buf.String(), "status=200") {
		t.Fatalf("expected default 200 status, got %q", buf.String())
	}
}
