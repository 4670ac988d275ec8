// Package metrics implements Prometheus metrics collection for Spyglass.
//
// # Overview
//
// The package centers on the Collector, which owns an explicit
// prometheus.Registry and the five metrics Spyglass exposes:
//
//   - http_requests_total{method,endpoint,status_code}
//   - http_request_duration_seconds{method,endpoint}
//   - http_errors_total{method,endpoint,status_code}
//   - active_connections
//   - log_messages_total{level}
//
// # Cardinality
//
// Every endpoint label must pass through Normalize before reaching the
// collector. Normalize replaces numeric and UUID path segments with a
// fixed placeholder, so /api/users/123 and /api/users/456 share one
// series. Without this the number of series would grow with the set of
// distinct IDs ever requested.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("GET", metrics.Normalize("/items/42"), 200, 0.012)
//	http.Handle("/metrics", collector.Handler())
package metrics
