package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. PasswordHash is a bcrypt hash and
// must never leave the service layer.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
