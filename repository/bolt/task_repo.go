package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// TasksBucket holds one JSON record per task keyed by id.
const TasksBucket = "tasks"

type taskRecord struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Notes     *string    `json:"notes,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int64      `json:"version"`
}

func toRecord(t *domain.Task) taskRecord {
	return taskRecord{
		ID:        t.ID,
		Title:     t.Title,
		Notes:     t.Notes,
		DueDate:   t.DueDate,
		Done:      t.Done,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Version:   t.Version,
	}
}

func (r taskRecord) task() domain.Task {
	return domain.Task{
		ID:        r.ID,
		Title:     r.Title,
		Notes:     r.Notes,
		DueDate:   r.DueDate,
		Done:      r.Done,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Version:   r.Version,
	}
}

type taskRepository struct {
	db     *bbolt.DB
	bucket []byte
}

// NewTaskRepository returns a BoltDB-backed implementation of TaskRepository.
// The bucket must already exist.
func NewTaskRepository(db *bbolt.DB) repository.TaskRepository {
	return &taskRepository{db: db, bucket: []byte(TasksBucket)}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var task *domain.Task
	err := r.db.View(func(tx *bbolt.Tx) error {
		rec, err := r.load(tx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrTaskNotFound
		}
		t := rec.task()
		task = &t
		return nil
	})
	return task, err
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var matched []domain.Task
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(_, v []byte) error {
			var rec taskRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if t := rec.task(); filter.Query.Matches(t) {
				matched = append(matched, t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return filter.Query.Less(matched[i], matched[j])
	})

	total := len(matched)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	page := make([]domain.Task, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(toRecord(task))
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b.Get([]byte(task.ID)) != nil {
			return domain.WrapError(domain.ErrCodeConflict, "task already exists", nil)
		}
		return b.Put([]byte(task.ID), payload)
	})
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(toRecord(task))
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		rec, err := r.load(tx, task.ID)
		if err != nil {
			return err
		}
		if rec == nil || rec.Version != expectedVersion {
			return domain.ErrConflict
		}
		return tx.Bucket(r.bucket).Put([]byte(task.ID), payload)
	})
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (r *taskRepository) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var exists bool
	err := r.db.View(func(tx *bbolt.Tx) error {
		exists = tx.Bucket(r.bucket).Get([]byte(id)) != nil
		return nil
	})
	return exists, err
}

func (r *taskRepository) load(tx *bbolt.Tx, id string) (*taskRecord, error) {
	raw := tx.Bucket(r.bucket).Get([]byte(id))
	if raw == nil {
		return nil, nil
	}
	var rec taskRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
