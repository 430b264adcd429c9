// Package sqlite stores tasks in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"task-manager/internal/model"
	"task-manager/internal/task"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL CHECK (trim(title) <> ''),
	description TEXT,
	completed   BOOLEAN NOT NULL DEFAULT 0,
	priority    TEXT DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
`

const columns = `id, title, description, completed, priority, created_at, updated_at`

var _ task.Repository = (*Store)(nil)

// Store persists tasks in a SQLite database. AUTOINCREMENT keeps ids from
// being reused after deletes.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at dsn and ensures the tasks table
// exists. The caller is responsible for calling Close.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY; also keeps :memory: on one connection
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Close releases the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM tasks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, model.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	now := s.now()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, completed, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+columns,
		in.Title, nullString(in.Description), in.Completed, string(in.Priority), now, now,
	)
	t, err := scanTask(row)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// Update merges the set fields of patch and stamps updated_at.
func (s *Store) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{s.now()}

	if patch.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, patch.Title.Value)
	}
	if patch.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, nullString(patch.Description.Value))
	}
	if patch.Completed.Set {
		sets = append(sets, "completed = ?")
		args = append(args, patch.Completed.Value)
	}
	if patch.Priority.Set {
		sets = append(sets, "priority = ?")
		if p := patch.Priority.Value; p != nil {
			args = append(args, string(*p))
		} else {
			args = append(args, nil)
		}
	}
	args = append(args, id)

	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+columns,
		args...,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, model.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

// Delete removes a task by ID. A missing id is not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanTask.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	var description, priority sql.NullString

	err := s.Scan(
		&t.ID, &t.Title, &description, &t.Completed, &priority,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if priority.Valid {
		p := model.Priority(priority.String)
		t.Priority = &p
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
