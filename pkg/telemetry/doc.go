// Package telemetry groups the observability subsystems of Spyglass.
//
// # Components
//
//   - metrics: Prometheus metrics collection and endpoint normalization
//   - logging: the rotated-file application logger
//   - health: liveness and readiness endpoints
//
// The metrics Collector and the Logger are constructed once at process
// start and passed by reference to everything that records telemetry;
// neither is global state and both live until the process exits.
package telemetry
