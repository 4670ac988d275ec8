// Package logging provides the Spyglass application logger.
//
// The logger is built on log/slog with a custom handler that emits
// fixed-layout text lines:
//
//	2024-01-01 10:00:00 INFO request completed method=GET status=200
//
// Lines are written through a size-rotated file (5 MB trigger, 3 backups
// by default) owned by this package; the logquery package reads the same
// file back for the /logs endpoints. Each committed line also increments
// log_messages_total{level} when a metrics recorder is attached.
package logging
