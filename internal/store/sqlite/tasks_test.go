package sqlite

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"task-manager/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	f, err := os.CreateTemp("", "tasks-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	f.Close()
	path := f.Name()
	t.Cleanup(func() { os.Remove(path) })

	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time {
		clock = clock.Add(1500 * time.Millisecond)
		return clock
	})
	return store
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	desc := "two litres"
	created, err := store.Create(ctx, model.NewTask{
		Title:       "Buy milk",
		Description: &desc,
		Priority:    model.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create returned zero ID")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("created_at=%s updated_at=%s, want equal", created.CreatedAt, created.UpdatedAt)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Buy milk" {
		t.Errorf("Title = %q, want Buy milk", got.Title)
	}
	if got.Description == nil || *got.Description != desc {
		t.Errorf("Description = %v, want %q", got.Description, desc)
	}
	if got.Priority == nil || *got.Priority != model.PriorityHigh {
		t.Errorf("Priority = %v, want high", got.Priority)
	}
	if got.Completed {
		t.Error("Completed = true, want false")
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %s, want %s", got.CreatedAt, created.CreatedAt)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), 42); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, model.NewTask{Title: "orig", Priority: model.PriorityMedium})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update(ctx, created.ID, model.TaskPatch{
		Completed: model.Some(true),
		Priority:  model.Some[*model.Priority](nil),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Completed {
		t.Error("Completed = false, want true")
	}
	if updated.Priority != nil {
		t.Errorf("Priority = %v, want nil", *updated.Priority)
	}
	if updated.Title != "orig" {
		t.Errorf("Title = %q, want orig", updated.Title)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at %s not after %s", updated.UpdatedAt, created.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed: %s -> %s", created.CreatedAt, updated.CreatedAt)
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Update(context.Background(), 99, model.TaskPatch{Completed: model.Some(true)})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_Constraints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Create(ctx, model.NewTask{Title: "x", Priority: "urgent"}); err == nil {
		t.Fatal("expected constraint error for unknown priority")
	}

	created, err := store.Create(ctx, model.NewTask{Title: "x", Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Update(ctx, created.ID, model.TaskPatch{Title: model.Some("   ")}); err == nil {
		t.Fatal("expected constraint error for blank title")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "x" {
		t.Errorf("Title = %q, want unchanged x", got.Title)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, model.NewTask{Title: "to delete", Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	next, err := store.Create(ctx, model.NewTask{Title: "next", Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if next.ID <= created.ID {
		t.Errorf("id %d reused or went backwards (deleted %d)", next.ID, created.ID)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c", "d"} {
		if _, err := store.Create(ctx, model.NewTask{Title: title, Priority: model.PriorityMedium}); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}

	tasks, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("len = %d, want 4", len(tasks))
	}
	if tasks[0].Title != "d" || tasks[3].Title != "a" {
		t.Errorf("order = %s..%s, want d..a", tasks[0].Title, tasks[3].Title)
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].CreatedAt.Before(tasks[i].CreatedAt) {
			t.Errorf("tasks[%d] created before tasks[%d]", i-1, i)
		}
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store := newTestStore(t)
	tasks, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("tasks = %#v, want empty non-nil slice", tasks)
	}
}
