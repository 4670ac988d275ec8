// Package server provides the Spyglass HTTP server.
//
// Routes:
//
//	GET /metrics    - Prometheus exposition (unauthenticated)
//	GET /logs       - recent log lines as colorized HTML (admin)
//	GET /logs/json  - the same result set as structured JSON (admin)
//	GET /healthz    - liveness probe
//	GET /readyz     - readiness probe
//
// Every request passes through the middleware chain (request ID,
// request logging, metrics instrumentation, panic recovery), so the
// server's own endpoints appear in the metrics they serve.
package server
