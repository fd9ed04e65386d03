package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

// TaskFilter selects, orders and windows a task listing.
type TaskFilter struct {
	Query  domain.ListQuery
	Limit  int
	Offset int
}

// TaskRepository is the persistence contract of the task service.
//
// Update is a conditional write: it succeeds only if the stored version equals
// expectedVersion and returns domain.ErrConflict otherwise, including when the
// task no longer exists.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
