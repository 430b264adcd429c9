package memorystore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/task"
)

// ErrConstraint mirrors the CHECK constraints of the SQL schemas.
var ErrConstraint = errors.New("constraint violation")

var _ task.Repository = (*TaskStore)(nil)

// TaskStore keeps tasks in process memory. Contents are lost on restart.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]model.Task
	nextID int64
	now    func() time.Time
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[int64]model.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *TaskStore) WithClock(now func() time.Time) *TaskStore {
	s.now = now
	return s
}

func (s *TaskStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *TaskStore) Close() error { return nil }

func (s *TaskStore) List(ctx context.Context) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, clone(t))
	}
	slices.SortFunc(out, func(a, b model.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *TaskStore) Get(ctx context.Context, id int64) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrNotFound
	}
	return clone(t), nil
}

func (s *TaskStore) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	p := in.Priority
	t := model.Task{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		Priority:    &p,
	}
	if err := check(t); err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now()
	t.ID = s.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.ID] = clone(t)
	return t, nil
}

func (s *TaskStore) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrNotFound
	}

	patch.Apply(&t)
	if err := check(t); err != nil {
		return model.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	t.UpdatedAt = s.now()
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
	s.tasks[id] = clone(t)
	return t, nil
}

// Delete removes the task if present. A missing id is not an error.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tasks, id)
	return nil
}

func check(t model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrConstraint)
	}
	if t.Priority != nil && !t.Priority.Valid() {
		return fmt.Errorf("%w: priority %q not allowed", ErrConstraint, *t.Priority)
	}
	return nil
}

// clone detaches the pointer fields so callers cannot mutate stored rows.
func clone(t model.Task) model.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	if t.Priority != nil {
		p := *t.Priority
		t.Priority = &p
	}
	return t
}
