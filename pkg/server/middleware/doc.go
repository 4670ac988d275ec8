// Package middleware provides the HTTP middleware chain for the
// Spyglass server: request IDs, request logging, metrics
// instrumentation, panic recovery, and admin authentication for the log
// endpoints.
//
// Intended order, outermost first:
//
//	RequestID, Logging, Metrics, Recovery, then the routes
//
// Recovery sits innermost so the 500 it writes on a panic is observed by
// both the logging and metrics middleware; the metrics middleware's
// deferred accounting runs on every exit path, which is what keeps the
// active_connections gauge balanced.
package middleware
