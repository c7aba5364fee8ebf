package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	due_date DATETIME NULL,
	is_complete INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (id, user_id, title, description, due_date, is_complete, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID.String(),
		task.UserID.String(),
		task.Title,
		task.Description,
		nullTime(task.DueDate),
		task.IsComplete,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, description, due_date, is_complete, created_at, updated_at
FROM tasks
WHERE id = ? AND user_id = ?`,
		id.String(),
		ownerID.String(),
	)
	return scanTask(row)
}

func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, isComplete *bool) ([]domain.Task, error) {
	query := `
SELECT id, user_id, title, description, due_date, is_complete, created_at, updated_at
FROM tasks
WHERE user_id = ?`
	args := []any{ownerID.String()}
	if isComplete != nil {
		query += ` AND is_complete = ?`
		args = append(args, *isComplete)
	}
	// creation order keeps listings stable across calls
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET title=?, description=?, due_date=?, is_complete=?, updated_at=?
WHERE id=? AND user_id=?`,
		task.Title,
		task.Description,
		nullTime(task.DueDate),
		task.IsComplete,
		task.UpdatedAt,
		task.ID.String(),
		task.UserID.String(),
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("update task: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id=? AND user_id=?`,
		id.String(),
		ownerID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("delete task: %w", repository.ErrNotFound)
	}
	return nil
}

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task    domain.Task
		id      string
		userID  string
		dueDate sql.NullTime
	)

	if err := scanner.Scan(
		&id,
		&userID,
		&task.Title,
		&task.Description,
		&dueDate,
		&task.IsComplete,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get task: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse task id: %w", err)
	}
	parsedUserID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("parse task user id: %w", err)
	}
	task.ID = parsedID
	task.UserID = parsedUserID
	if dueDate.Valid {
		t := dueDate.Time.UTC()
		task.DueDate = &t
	}

	return &task, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
