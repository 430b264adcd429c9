package task

import (
	"context"

	"task-manager/internal/model"
)

// Repository is the persistence boundary for tasks.
//
// Get and Update return model.ErrNotFound when no row matches. Delete
// returns nil when no row matches.
type Repository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	Create(ctx context.Context, in model.NewTask) (model.Task, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}
