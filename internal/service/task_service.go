package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

// ErrTaskNotFound is returned when a task does not exist or is owned by a
// different user. The two cases are indistinguishable on purpose.
var ErrTaskNotFound = errors.New("task not found")

// TaskService coordinates owner-scoped task operations backed by the task
// repository. The owner id is trusted input extracted from a verified
// bearer token by the HTTP layer.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, dueDate *time.Time) (*domain.Task, error)
	GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, isComplete *bool) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id, ownerID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error
}

type taskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{
		tasks: tasks,
	}
}

func (s *taskService) CreateTask(ctx context.Context, ownerID uuid.UUID, title, description string, dueDate *time.Time) (*domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	task := &domain.Task{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		IsComplete:  false,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, ownerID uuid.UUID, isComplete *bool) ([]domain.Task, error) {
	return s.tasks.List(ctx, ownerID, isComplete)
}

func (s *taskService) UpdateTask(ctx context.Context, id, ownerID uuid.UUID, update domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.GetTask(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.IsComplete != nil {
		task.IsComplete = *update.IsComplete
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}
