package metrics

import (
	"strconv"

	"spyglass-hq/spyglass/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric Spyglass exposes and the
// registry they are registered with. It is constructed once at process
// start and passed by reference into the middleware, the logging
// subsystem, and the exposition handler; there is no hidden global
// state, but the single-instance-per-process semantics are the same.
//
// Updates are safe under arbitrarily many concurrent callers: each
// series is backed by client_golang's per-series atomics, so unrelated
// requests never contend on a registry-wide lock.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec

	// In-flight request gauge
	activeConnections prometheus.Gauge

	// Emitted log lines by level, incremented by the logging subsystem
	logMessagesTotal *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics with the
// provided registry. If registry is nil a fresh one is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: cfg.DurationBuckets,
			},
			[]string{"method", "endpoint"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of HTTP requests answered with a 4xx or 5xx status",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_connections",
				Help: "Number of HTTP requests currently in flight",
			},
		),

		logMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "log_messages_total",
				Help: "Total number of log lines emitted by level",
			},
			[]string{"level"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.errorsTotal,
		c.activeConnections,
		c.logMessagesTotal,
	)

	return c
}

// RecordRequest records one completed request. The endpoint must already
// be normalized (see Normalize); passing raw paths here defeats the
// cardinality bound. Negative durations are clamped to zero but the
// event is still recorded, never dropped.
func (c *Collector) RecordRequest(method, endpoint string, statusCode int, seconds float64) {
	if !c.config.IsEnabled() {
		return
	}
	if seconds < 0 {
		seconds = 0
	}

	status := strconv.Itoa(statusCode)
	c.requestsTotal.WithLabelValues(method, endpoint, status).Inc()
	c.requestDuration.WithLabelValues(method, endpoint).Observe(seconds)

	if statusCode >= 400 && statusCode <= 599 {
		c.errorsTotal.WithLabelValues(method, endpoint, status).Inc()
	}
}

// ConnOpened increments the in-flight request gauge.
func (c *Collector) ConnOpened() {
	if !c.config.IsEnabled() {
		return
	}
	c.activeConnections.Inc()
}

// ConnClosed decrements the in-flight request gauge. Callers must pair
// it with ConnOpened on every exit path; the collector does not enforce
// pairing itself.
func (c *Collector) ConnClosed() {
	if !c.config.IsEnabled() {
		return
	}
	c.activeConnections.Dec()
}

// RecordLogMessage counts one emitted log line at the given level.
func (c *Collector) RecordLogMessage(level string) {
	if !c.config.IsEnabled() {
		return
	}
	c.logMessagesTotal.WithLabelValues(level).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
