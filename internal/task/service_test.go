package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"task-manager/internal/model"
	"task-manager/internal/task"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func TestCreate_RejectsBlankTitle(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"", "   ", "\t\n"} {
		repo := &mockRepo{}
		svc := task.NewService(repo)

		_, err := svc.Create(context.Background(), task.CreateInput{Title: title})

		var verr *task.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestCreate_AppliesDefaults(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	want := model.NewTask{Title: "Buy milk", Priority: model.PriorityMedium}
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	repo.On("Create", mock.Anything, want).Return(model.Task{ID: 1, Title: "Buy milk", CreatedAt: now, UpdatedAt: now}, nil)

	svc := task.NewService(repo)
	got, err := svc.Create(context.Background(), task.CreateInput{Title: "  Buy milk  "})

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	repo.AssertExpectations(t)
}

func TestCreate_PassesPriorityThrough(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	odd := model.Priority("urgent")
	done := true
	want := model.NewTask{Title: "x", Description: strPtr("d"), Completed: true, Priority: odd}
	repo.On("Create", mock.Anything, want).Return(model.Task{ID: 2}, nil)

	svc := task.NewService(repo)
	_, err := svc.Create(context.Background(), task.CreateInput{
		Title:       "x",
		Description: strPtr("d"),
		Priority:    &odd,
		Completed:   &done,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreate_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	boom := errors.New("connection refused")
	repo.On("Create", mock.Anything, mock.Anything).Return(model.Task{}, boom)

	_, err := task.NewService(repo).Create(context.Background(), task.CreateInput{Title: "x"})
	require.ErrorIs(t, err, boom)
}

func TestUpdate_DoesNotRevalidateTitle(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	patch := model.TaskPatch{Title: model.Some("")}
	repo.On("Update", mock.Anything, int64(7), patch).Return(model.Task{ID: 7}, nil)

	_, err := task.NewService(repo).Update(context.Background(), 7, patch)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: " 7 ", want: 7},
		{raw: "abc", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := task.ParseID(tc.raw)
			if tc.wantErr {
				var verr *task.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "id", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
