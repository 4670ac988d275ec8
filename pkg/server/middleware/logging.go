package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logging logs one line per completed request with method, path, status,
// latency, and request ID. Completion severity follows the status code:
// 5xx logs at error, 4xx at warning, the rest at info.
//
// Example usage:
//
//	handler = middleware.Logging(logger)(handler)
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw, ok := w.(*responseWriter)
			if !ok {
				rw = newResponseWriter(w)
			}

			next.ServeHTTP(rw, r)

			latency := time.Since(start)

			level := slog.LevelInfo
			switch {
			case rw.statusCode >= 500:
				level = slog.LevelError
			case rw.statusCode >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", latency.Milliseconds(),
				"request_id", GetRequestID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}
