// Package store opens the task store selected by configuration.
package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/observability/jsonlog"
	"task-manager/internal/store/memorystore"
	"task-manager/internal/store/postgres"
	"task-manager/internal/store/sqlite"
	"task-manager/internal/task"
)

// Store is a task repository that owns a connection.
type Store interface {
	task.Repository
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Driver          string
	URL             string
	ConnectAttempts int
	Backoff         Backoff
}

type opener func(ctx context.Context) (Store, error)

// Open connects to the configured driver. Network-backed drivers are retried
// with backoff until ConnectAttempts is exhausted or ctx is done.
func Open(ctx context.Context, opts Options, log *jsonlog.Logger) (Store, error) {
	switch opts.Driver {
	case config.DriverPostgres:
		open := func(ctx context.Context) (Store, error) {
			repo, err := postgres.Open(ctx, opts.URL)
			if err != nil {
				return nil, err
			}
			return repo, nil
		}
		return openWithRetry(ctx, opts, open, log, sleepCtx)
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMemory:
		return memorystore.NewTaskStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func openWithRetry(
	ctx context.Context,
	opts Options,
	open opener,
	log *jsonlog.Logger,
	sleep func(context.Context, time.Duration) error,
) (Store, error) {
	attempts := opts.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		s, err := open(ctx)
		if err == nil {
			return s, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		wait := opts.Backoff.Delay(attempt, rng)
		log.Warn("store_connect_retry", map[string]any{
			"driver":  opts.Driver,
			"attempt": attempt,
			"wait_ms": wait.Milliseconds(),
			"err":     err,
		})
		if err := sleep(ctx, wait); err != nil {
			return nil, fmt.Errorf("open %s store: %w", opts.Driver, err)
		}
	}
	return nil, fmt.Errorf("open %s store after %d attempts: %w", opts.Driver, attempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
