package middleware

import "context"

// contextKey is a private type for context keys defined in this package.
type contextKey string

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey contextKey = "request_id"
)

// GetRequestID extracts the request ID from the context. Returns an
// empty string if not set.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
