package utils

import (
	"time"

	"github.com/google/uuid"
)

// SessionData is the middleware-facing view of a stored session.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}

func GenerateUUID() string {
	return uuid.NewString()
}
