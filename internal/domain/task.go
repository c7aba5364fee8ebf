package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a single to-do item owned by exactly one user. UserID is
// set at creation and never changes.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	IsComplete  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskUpdate carries a partial update. A nil field means "leave unchanged";
// a non-nil pointer to the zero value explicitly sets the field to it.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	IsComplete  *bool
}
