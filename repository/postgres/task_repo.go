package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

const taskColumns = `id, title, notes, due_date, done, created_at, updated_at, version`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	where, args := whereClause(filter.Query)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, orderClause(filter.Query), len(args)+1, len(args)+2)
	args = append(args, limitArg(filter.Limit), max(filter.Offset, 0))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, max(filter.Limit, 0))
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, total, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (id, title, notes, due_date, done, created_at, updated_at, version)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Notes,
		nullTime(task.DueDate),
		task.Done,
		task.CreatedAt,
		task.UpdatedAt,
		task.Version,
	)
	return err
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		notes = $3,
		due_date = $4,
		done = $5,
		updated_at = $6,
		version = $7
	WHERE id = $1 AND version = $8
	`
	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Notes,
		nullTime(task.DueDate),
		task.Done,
		task.UpdatedAt,
		task.Version,
		expectedVersion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var due *time.Time

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Notes,
		&due,
		&task.Done,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Version,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = due
	return &task, nil
}
