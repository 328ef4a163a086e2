package metrics

import "github.com/prometheus/client_golang/prometheus"

// APIClientMetrics exposes counters/histograms for calls to the clinic REST API.
type APIClientMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func NewAPIClientMetrics(reg prometheus.Registerer) *APIClientMetrics {
	m := &APIClientMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psyclinic",
			Subsystem: "apiclient",
			Name:      "requests_total",
			Help:      "Total requests sent to the clinic API",
		}, []string{"method", "resource", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "psyclinic",
			Subsystem: "apiclient",
			Name:      "request_latency_seconds",
			Help:      "Latency of clinic API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency)
	return m
}

// ObserveRequest records one finished request. status is a class such as
// "2xx", "4xx" or "error" for transport failures.
func (m *APIClientMetrics) ObserveRequest(method, resource, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, resource, status).Inc()
	m.requestLatency.WithLabelValues(method, resource).Observe(seconds)
}

// StatusClass buckets an HTTP status code for the status label.
func StatusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "error"
	}
}

// ViewMetrics tracks view reloads served by the dashboard.
type ViewMetrics struct {
	reloadsTotal  *prometheus.CounterVec
	reloadLatency *prometheus.HistogramVec
}

func NewViewMetrics(reg prometheus.Registerer) *ViewMetrics {
	m := &ViewMetrics{
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psyclinic",
			Subsystem: "views",
			Name:      "reloads_total",
			Help:      "Total view reloads",
		}, []string{"view", "outcome"}),
		reloadLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "psyclinic",
			Subsystem: "views",
			Name:      "reload_latency_seconds",
			Help:      "Latency of view reloads",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reloadsTotal, m.reloadLatency)
	return m
}

func (m *ViewMetrics) ObserveReload(view string, failed bool, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.reloadsTotal.WithLabelValues(view, outcome).Inc()
	m.reloadLatency.WithLabelValues(view).Observe(seconds)
}
