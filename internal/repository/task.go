package repository

import (
	"context"

	"github.com/google/uuid"

	"task-tracker/internal/domain"
)

// TaskRepository exposes persistence operations for Task records. Get,
// Update and Delete are scoped by owner: a task belonging to another user
// behaves exactly like a missing one.
type TaskRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, task *domain.Task) error
	Get(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, isComplete *bool) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
