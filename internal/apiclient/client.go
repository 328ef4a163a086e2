// Package apiclient is the single configured client for the clinic REST API.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/psyclinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/psyclinic-dashboard/pkg/logging"
)

const (
	DefaultBaseURL = "https://localhost:7224"
	apiPrefix      = "/api"
	maxLoggedBody  = 2048
)

// Options configures New. Zero values are usable.
type Options struct {
	BaseURL string
	// Timeout bounds each call. Zero means no client-side timeout.
	Timeout time.Duration
	// InsecureSkipVerify accepts self-signed development certificates.
	InsecureSkipVerify bool
	HTTPClient         *http.Client
	Logger             *logging.Logger
	Metrics            *metrics.APIClientMetrics
	Tracer             trace.Tracer
}

// Client issues JSON requests against {BaseURL}/api.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
	metrics    *metrics.APIClientMetrics
	tracer     trace.Tracer
}

// New constructs a Client. Build one per process and inject it.
func New(opts Options) *Client {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("psyclinic.internal.apiclient")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
		if opts.InsecureSkipVerify {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // local dev certificates only
			httpClient.Transport = transport
		}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		metrics:    opts.Metrics,
		tracer:     tracer,
	}
}

// BaseURL returns the configured base URL without the /api prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get decodes the JSON response into out. Non-JSON responses leave out untouched.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) (err error) {
	resource := resourceOf(path)
	ctx, span := c.tracer.Start(ctx, "apiclient.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("psyclinic.resource", resource),
		attribute.String("psyclinic.path", path),
	)

	start := time.Now()
	statusLabel := "error"
	defer func() {
		c.metrics.ObserveRequest(method, resource, statusLabel, time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	endpoint := c.baseURL + apiPrefix + path

	var bodyReader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("marshal request: %w", mErr)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("clinic API request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	statusLabel = metrics.StatusClass(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		logged := msg
		if len(logged) > maxLoggedBody {
			logged = logged[:maxLoggedBody]
		}
		c.logger.Warn("clinic API non-2xx response", "method", method, "status", resp.StatusCode, "path", path, "body", logged)
		return &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}

	if out == nil || !isJSON(resp.Header.Get("Content-Type")) || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// resourceOf returns the first path segment, used as a low-cardinality label.
func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
