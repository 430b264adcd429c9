package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/task"
)

var schema = []string{
	`
CREATE TABLE IF NOT EXISTS tasks (
    id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    title       TEXT NOT NULL CHECK (btrim(title) <> ''),
    description TEXT,
    completed   BOOLEAN NOT NULL DEFAULT false,
    priority    TEXT DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    CHECK (updated_at >= created_at)
);`,
	`CREATE INDEX IF NOT EXISTS tasks_created_at_idx ON tasks (created_at DESC);`,
}

const columns = `id, title, description, completed, priority, created_at, updated_at`

var _ task.Repository = (*TaskRepo)(nil)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// EnsureSchema creates the tasks table when it does not exist yet.
func (r *TaskRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	q := `SELECT ` + columns + ` FROM tasks ORDER BY created_at DESC, id DESC;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	q := `SELECT ` + columns + ` FROM tasks WHERE id = $1;`

	t, err := scanTask(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Create inserts a row. created_at and updated_at come from the same now()
// so they are equal on a fresh row.
func (r *TaskRepo) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	q := `
INSERT INTO tasks (title, description, completed, priority)
VALUES ($1, $2, $3, $4)
RETURNING ` + columns + `;`

	t, err := scanTask(r.db.QueryRowContext(ctx, q,
		in.Title,
		in.Description,
		in.Completed,
		string(in.Priority),
	))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// Update merges the set fields of patch and refreshes updated_at.
// It returns model.ErrNotFound when no row has the id.
func (r *TaskRepo) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	sets := []string{"updated_at = GREATEST(now(), created_at)"}
	args := make([]any, 0, 5)

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title.Set {
		add("title", patch.Title.Value)
	}
	if patch.Description.Set {
		add("description", patch.Description.Value)
	}
	if patch.Completed.Set {
		add("completed", patch.Completed.Value)
	}
	if patch.Priority.Set {
		add("priority", nullablePriority(patch.Priority.Value))
	}

	args = append(args, id)
	q := fmt.Sprintf(`
UPDATE tasks
SET %s
WHERE id = $%d
RETURNING %s;
`, strings.Join(sets, ",\n    "), len(args), columns)

	t, err := scanTask(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

// Delete removes the row by filter. Zero affected rows is not an error.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1;`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (r *TaskRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *TaskRepo) Close() error { return r.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	err := s.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.Priority,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func nullablePriority(p *model.Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}
