package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/pkg/metrics"
	"github.com/fastygo/todo/repository"
)

// Config holds listing defaults.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// ListParams are the raw listing parameters as received from the client.
type ListParams struct {
	Status   string
	Sort     string
	Order    string
	Page     int
	PageSize int
}

// TaskPage is one page of a listing plus the size of the whole filtered set.
type TaskPage struct {
	Tasks []domain.Task
	Total int
	Page  domain.Page
}

// CreateInput carries the fields accepted on creation.
type CreateInput struct {
	Title   string
	Notes   *string
	DueDate *string
	Done    bool
}

type UseCase struct {
	tasks  repository.TaskRepository
	cfg    Config
	now    func() time.Time
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, cfg Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 50
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return &UseCase{
		tasks:  tasks,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

func (uc *UseCase) ListTasks(ctx context.Context, params ListParams) (*TaskPage, error) {
	query := domain.NewListQuery(params.Status, params.Sort, params.Order)
	page := domain.NewPage(params.Page, params.PageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)

	tasks, total, err := uc.tasks.List(ctx, repository.TaskFilter{
		Query:  query,
		Limit:  page.Size,
		Offset: page.Offset(),
	})
	if err != nil {
		uc.record("list", err)
		return nil, err
	}
	uc.record("list", nil)
	return &TaskPage{Tasks: tasks, Total: total, Page: page}, nil
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task, err := uc.tasks.GetByID(ctx, id)
	uc.record("get", err)
	return task, err
}

func (uc *UseCase) CreateTask(ctx context.Context, in CreateInput) (*domain.Task, error) {
	task, err := uc.buildTask(in)
	if err != nil {
		uc.record("create", err)
		return nil, err
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		uc.record("create", err)
		return nil, err
	}
	uc.record("create", nil)
	logger.WithRequestID(ctx, uc.logger).Debug("task created", zap.String("task_id", task.ID))
	return task, nil
}

// UpdateTask applies a sparse patch. Validation happens before any write.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	current, err := uc.fetch(ctx, id)
	if err != nil {
		uc.record("update", err)
		return nil, err
	}

	next, err := domain.ApplyPatch(*current, patch, uc.now())
	if err != nil {
		uc.record("update", err)
		return nil, err
	}

	updated, err := uc.save(ctx, "update", &next, current.Version)
	uc.record("update", err)
	return updated, err
}

// ToggleTask sets the done flag. Setting the current value still advances UpdatedAt.
func (uc *UseCase) ToggleTask(ctx context.Context, id string, done bool) (*domain.Task, error) {
	current, err := uc.fetch(ctx, id)
	if err != nil {
		uc.record("toggle", err)
		return nil, err
	}

	next := domain.ApplyToggle(*current, done, uc.now())
	updated, err := uc.save(ctx, "toggle", &next, current.Version)
	uc.record("toggle", err)
	return updated, err
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	err := uc.tasks.Delete(ctx, id)
	uc.record("delete", err)
	if err == nil {
		logger.WithRequestID(ctx, uc.logger).Debug("task deleted", zap.String("task_id", id))
	}
	return err
}

func (uc *UseCase) buildTask(in CreateInput) (*domain.Task, error) {
	title, err := domain.NormalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Notes != nil {
		if err := domain.ValidateNotes(*in.Notes); err != nil {
			return nil, err
		}
	}
	var due *time.Time
	if in.DueDate != nil {
		if due, err = domain.ParseDueDate(*in.DueDate); err != nil {
			return nil, err
		}
	}

	now := uc.now().UTC().Truncate(time.Microsecond)
	return &domain.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Notes:     in.Notes,
		DueDate:   due,
		Done:      in.Done,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}

func (uc *UseCase) fetch(ctx context.Context, id string) (*domain.Task, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return uc.tasks.GetByID(ctx, id)
}

// save performs the conditional write. A rejected write is resolved by
// checking existence: a vanished task is reported as not found, anything
// else is returned as an internal error without retrying.
func (uc *UseCase) save(ctx context.Context, op string, next *domain.Task, expectedVersion int64) (*domain.Task, error) {
	err := uc.tasks.Update(ctx, next, expectedVersion)
	if err == nil {
		return next, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}

	log := logger.WithRequestID(ctx, uc.logger).With(zap.String("task_id", next.ID), zap.String("operation", op))
	exists, existsErr := uc.tasks.Exists(ctx, next.ID)
	if existsErr != nil {
		return nil, errors.Join(err, existsErr)
	}
	if !exists {
		metrics.RecordWriteConflict(op, "not_found")
		log.Info("task deleted during write")
		return nil, domain.ErrTaskNotFound
	}
	metrics.RecordWriteConflict(op, "fatal")
	log.Warn("concurrent task modification", zap.Int64("expected_version", expectedVersion))
	return nil, domain.WrapError(domain.ErrCodeInternal, "concurrent modification", err)
}

func (uc *UseCase) record(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		result = "invalid"
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.RecordTaskOperation(op, result)
}

// canonicalID reports whether id is a UUID and returns its lowercase hyphenated form.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
