package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

type fakeTaskRepo struct {
	tasks []*domain.Task
}

func (f *fakeTaskRepo) Init(ctx context.Context) error { return nil }

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	cp := *task
	f.tasks = append(f.tasks, &cp)
	return nil
}

func (f *fakeTaskRepo) find(id, ownerID uuid.UUID) *domain.Task {
	for _, task := range f.tasks {
		if task.ID == id && task.UserID == ownerID {
			return task
		}
	}
	return nil
}

func (f *fakeTaskRepo) Get(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if task := f.find(id, ownerID); task != nil {
		cp := *task
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTaskRepo) List(ctx context.Context, ownerID uuid.UUID, isComplete *bool) ([]domain.Task, error) {
	out := []domain.Task{}
	for _, task := range f.tasks {
		if task.UserID != ownerID {
			continue
		}
		if isComplete != nil && task.IsComplete != *isComplete {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	stored := f.find(task.ID, task.UserID)
	if stored == nil {
		return repository.ErrNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	*stored = *task
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	for i, task := range f.tasks {
		if task.ID == id && task.UserID == ownerID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(&fakeTaskRepo{})
	owner := uuid.New()

	due := time.Now().Add(24 * time.Hour).UTC()
	task, err := svc.CreateTask(ctx, owner, "write report", "quarterly numbers", &due)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, owner, task.UserID)
	assert.Equal(t, "write report", task.Title)
	assert.Equal(t, "quarterly numbers", task.Description)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, due, *task.DueDate)
	assert.False(t, task.IsComplete)
}

func TestTaskService_CreateTaskRequiresTitle(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(&fakeTaskRepo{})

	_, err := svc.CreateTask(ctx, uuid.New(), "", "", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateTask(ctx, uuid.New(), "   ", "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(&fakeTaskRepo{})
	alice := uuid.New()
	bob := uuid.New()

	task, err := svc.CreateTask(ctx, alice, "private", "", nil)
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, task.ID, bob)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	done := true
	_, err = svc.UpdateTask(ctx, task.ID, bob, domain.TaskUpdate{IsComplete: &done})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.DeleteTask(ctx, task.ID, bob)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// still intact for the owner
	got, err := svc.GetTask(ctx, task.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Title)
}

func TestTaskService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(&fakeTaskRepo{})
	owner := uuid.New()

	task, err := svc.CreateTask(ctx, owner, "T", "D", nil)
	require.NoError(t, err)

	done := true
	updated, err := svc.UpdateTask(ctx, task.ID, owner, domain.TaskUpdate{IsComplete: &done})
	require.NoError(t, err)
	assert.Equal(t, "T", updated.Title)
	assert.Equal(t, "D", updated.Description)
	assert.True(t, updated.IsComplete)

	// explicit empty description clears the field, nil leaves it alone
	empty := ""
	updated, err = svc.UpdateTask(ctx, task.ID, owner, domain.TaskUpdate{Description: &empty})
	require.NoError(t, err)
	assert.Equal(t, "T", updated.Title)
	assert.Equal(t, "", updated.Description)
	assert.True(t, updated.IsComplete)
}

func TestTaskService_UpdateRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(&fakeTaskRepo{})
	owner := uuid.New()

	task, err := svc.CreateTask(ctx, owner, "T", "", nil)
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateTask(ctx, task.ID, owner, domain.TaskUpdate{Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTaskService_FilteredListing(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(&fakeTaskRepo{})
	owner := uuid.New()

	done := true
	for i, complete := range []bool{true, false, false} {
		task, err := svc.CreateTask(ctx, owner, string(rune('a'+i)), "", nil)
		require.NoError(t, err)
		if complete {
			_, err = svc.UpdateTask(ctx, task.ID, owner, domain.TaskUpdate{IsComplete: &done})
			require.NoError(t, err)
		}
	}

	all, err := svc.ListTasks(ctx, owner, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	completed, err := svc.ListTasks(ctx, owner, &done)
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	notDone := false
	pending, err := svc.ListTasks(ctx, owner, &notDone)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestTaskService_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(&fakeTaskRepo{})
	owner := uuid.New()

	task, err := svc.CreateTask(ctx, owner, "ephemeral", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, task.ID, owner))

	_, err = svc.GetTask(ctx, task.ID, owner)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
