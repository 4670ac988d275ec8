// Package logquery implements the read path for recent application logs.
//
// # Overview
//
// The Engine reads the rotation writer's files back, parses each
// physical line into a Record, applies level and free-text filters, and
// returns a bounded, most-recent-first result set. The Handler serves
// that result as colorized HTML (/logs) and as structured JSON
// (/logs/json); both renderings come from the identical Query call.
//
// # Rotation tolerance
//
// The engine never writes and never holds a file handle between
// queries. Each query reopens the file by path, so after the external
// rotation it naturally reads the fresh file. A line being appended at
// read time is excluded from that snapshot rather than returned
// truncated, and the boundary line at the exact moment of rotation may
// be missing from one snapshot. Neither case is an error.
//
// # Bounds
//
// Results are capped at MaxLines (1000) and default to DefaultLines
// (100); with the rotation policy bounding file sizes, a query's latency
// is bounded by construction and no cancellation primitive is needed.
package logquery
