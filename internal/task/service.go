package task

import (
	"context"

	"task-manager/internal/model"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput is a parsed create request. Nil pointers mean the field was
// omitted or null.
type CreateInput struct {
	Title       string
	Description *string
	Priority    *model.Priority
	Completed   *bool
}

// List returns every task, most recently created first.
func (s *Service) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

// Create validates the title and fills defaults. Priority is passed through
// as given; the store owns the enum constraint.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Task, error) {
	title, err := ValidateTitle(in.Title)
	if err != nil {
		return model.Task{}, err
	}

	nt := model.NewTask{
		Title:       title,
		Description: in.Description,
		Priority:    model.PriorityMedium,
	}
	if in.Priority != nil {
		nt.Priority = *in.Priority
	}
	if in.Completed != nil {
		nt.Completed = *in.Completed
	}
	return s.repo.Create(ctx, nt)
}

// Update merges patch onto the task. The title is not re-validated here.
func (s *Service) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the task. Deleting an id that does not exist succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
