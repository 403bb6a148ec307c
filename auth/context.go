package auth

import "context"

type contextKey int

const userIDKey contextKey = 0

// NewContext returns a context carrying the authenticated user id.
func NewContext(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, or the empty
// string for an anonymous request.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
