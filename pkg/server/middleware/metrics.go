package middleware

import (
	"net/http"
	"time"

	"spyglass-hq/spyglass/pkg/telemetry/metrics"
)

// Metrics instruments one request/response cycle:
//
//  1. On entry the active_connections gauge is incremented and the start
//     time recorded.
//  2. On exit (normal return, panic unwinding through this frame, or
//     client disconnect) a single deferred block observes the duration,
//     increments http_requests_total, increments http_errors_total for
//     4xx/5xx statuses, and decrements the gauge.
//
// The deferred block is what makes the accounting exactly-once per
// request: it runs on every exit path, so the gauge always returns to
// its prior value. The endpoint label goes through metrics.Normalize so
// /items/42 and /items/43 share one series.
//
// Example usage:
//
//	handler = middleware.Metrics(collector)(handler)
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			collector.ConnOpened()
			start := time.Now()

			rw, ok := w.(*responseWriter)
			if !ok {
				rw = newResponseWriter(w)
			}

			defer func() {
				elapsed := time.Since(start).Seconds()
				endpoint := metrics.Normalize(r.URL.Path)
				collector.RecordRequest(r.Method, endpoint, rw.statusCode, elapsed)
				collector.ConnClosed()
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
