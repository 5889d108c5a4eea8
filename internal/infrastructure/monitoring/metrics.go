package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Message channel metrics
	MessagesTotal *prometheus.CounterVec

	// Preview build metrics
	BuildsTotal   prometheus.Counter
	BuildFailures prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge

	startTime time.Time
}

// NewMetrics creates a metrics collector and registers everything with the
// default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "previewd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "previewd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		MessagesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "previewd_messages_total",
				Help: "Inbound messages by validation outcome",
			},
			[]string{"outcome"},
		),
		BuildsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "previewd_preview_builds_total",
				Help: "Total preview document builds",
			},
		),
		BuildFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "previewd_preview_build_failures_total",
				Help: "Preview builds that fell back to the failure document",
			},
		),
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "previewd_ws_connections",
				Help: "Open WebSocket connections",
			},
		),
	}
}

// RecordHTTPRequest records one request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordMessage records one inbound message outcome ("valid"/"rejected").
func (m *Metrics) RecordMessage(outcome string) {
	m.MessagesTotal.WithLabelValues(outcome).Inc()
}

// RecordBuild records one preview build.
func (m *Metrics) RecordBuild(failed bool) {
	m.BuildsTotal.Inc()
	if failed {
		m.BuildFailures.Inc()
	}
}

// Uptime returns time since metrics creation.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
