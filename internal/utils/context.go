package utils

import (
	"context"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"
const ContextSessionIDKey contextKey = "sessionID"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

// GetSessionIDFromContext returns the raw session id the request authenticated
// with. Map view state is keyed on it so a surveyor's camera follows the login,
// not the device.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID := ctx.Value(ContextSessionIDKey)
	sessionIDStr, ok := sessionID.(string)
	return sessionIDStr, ok
}
