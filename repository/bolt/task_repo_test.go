package bolt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/infrastructure/boltdb"
	"github.com/fastygo/todo/repository"
)

func newTestRepo(t *testing.T) repository.TaskRepository {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "tasks.db"), nil, TasksBucket)
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskRepository(db)
}

func sampleTask(id string, created time.Time) *domain.Task {
	notes := "remember the receipt"
	return &domain.Task{
		ID:        id,
		Title:     "Sample task " + id,
		Notes:     &notes,
		CreatedAt: created,
		UpdatedAt: created,
		Version:   1,
	}
}

func TestTaskRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	created := time.Date(2025, 2, 1, 9, 30, 0, 123000, time.UTC)
	due := created.Add(72 * time.Hour)

	task := sampleTask("6f1c7e0a-0000-4000-8000-000000000001", created)
	task.DueDate = &due
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, task); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected conflict on duplicate id, got %v", err)
	}

	got, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != task.Title || *got.Notes != *task.Notes || !got.DueDate.Equal(due) || !got.CreatedAt.Equal(created) {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	next := *got
	next.Done = true
	next.UpdatedAt = created.Add(time.Minute)
	next.Version = 2
	if err := repo.Update(ctx, &next, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Update(ctx, &next, 1); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}

	got, err = repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if !got.Done || got.Version != 2 {
		t.Fatalf("update not persisted: %+v", got)
	}

	exists, err := repo.Exists(ctx, task.ID)
	if err != nil || !exists {
		t.Fatalf("expected task to exist: %v %v", exists, err)
	}

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetByID(ctx, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Update(ctx, &next, 2); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for deleted task, got %v", err)
	}
	exists, err = repo.Exists(ctx, task.ID)
	if err != nil || exists {
		t.Fatalf("expected task to be gone: %v %v", exists, err)
	}
}

func TestTaskRepositoryListPaging(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		task := sampleTask(fmt.Sprintf("00000000-0000-4000-8000-%012d", i), base.Add(time.Duration(i)*time.Hour))
		task.Done = i%4 == 0
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	query := domain.NewListQuery("active", "createdAt", "desc")
	var ids []string
	for offset := 0; offset < 10; offset += 3 {
		tasks, total, err := repo.List(ctx, repository.TaskFilter{Query: query, Limit: 3, Offset: offset})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 7 {
			t.Fatalf("expected 7 active tasks, got %d", total)
		}
		for _, task := range tasks {
			ids = append(ids, task.ID[len(task.ID)-2:])
		}
	}

	want := "[09 07 06 05 03 02 01]"
	if got := fmt.Sprint(ids); got != want {
		t.Fatalf("unexpected page concatenation %s, want %s", got, want)
	}

	tasks, total, err := repo.List(ctx, repository.TaskFilter{Query: query, Limit: 5, Offset: 50})
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if total != 7 || len(tasks) != 0 {
		t.Fatalf("expected empty page with total 7, got %d tasks total %d", len(tasks), total)
	}
}

func TestTaskRepositoryHonoursCancelledContext(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.GetByID(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if _, _, err := repo.List(ctx, repository.TaskFilter{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
