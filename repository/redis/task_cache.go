package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// tombstoneTTL bounds how long a delete or failed write blocks refills of the key.
const tombstoneTTL = 30 * time.Second

const deletedVersion = "deleted"

// Entries are hashes of {version, data}; a tombstone only carries version=deleted.
// fill lands only on an empty key, write only replaces an older live version,
// tombstone always wins. A slow miss can therefore never resurrect a deleted
// task or roll back a newer version.
var putEntry = redislib.NewScript(`
local current = redis.call('HGET', KEYS[1], 'version')
local mode = ARGV[1]
if current then
  if mode == 'fill' then
    return 0
  end
  if mode == 'write' and (current == 'deleted' or tonumber(current) >= tonumber(ARGV[2])) then
    return 0
  end
end
redis.call('DEL', KEYS[1])
if ARGV[3] == '' then
  redis.call('HSET', KEYS[1], 'version', ARGV[2])
else
  redis.call('HSET', KEYS[1], 'version', ARGV[2], 'data', ARGV[3])
end
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

type cachedTaskRepository struct {
	base   repository.TaskRepository
	client *redislib.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTaskRepository wraps base with a Redis read-through cache for GetByID.
// Writes go to base first and then refresh or tombstone the cached entry.
// Cache failures are logged and never fail the call.
func NewCachedTaskRepository(base repository.TaskRepository, client *redislib.Client, ttl time.Duration, logger *zap.Logger) repository.TaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedTaskRepository{
		base:   base,
		client: client,
		prefix: "task:",
		ttl:    ttl,
		logger: logger,
	}
}

func (r *cachedTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if task, ok := r.load(ctx, id); ok {
		return task, nil
	}
	task, err := r.base.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, "fill", task)
	return task, nil
}

func (r *cachedTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	return r.base.List(ctx, filter)
}

func (r *cachedTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.base.Create(ctx, task); err != nil {
		return err
	}
	r.store(ctx, "write", task)
	return nil
}

func (r *cachedTaskRepository) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	if err := r.base.Update(ctx, task, expectedVersion); err != nil {
		r.tombstone(ctx, task.ID)
		return err
	}
	r.store(ctx, "write", task)
	return nil
}

func (r *cachedTaskRepository) Delete(ctx context.Context, id string) error {
	err := r.base.Delete(ctx, id)
	r.tombstone(ctx, id)
	return err
}

func (r *cachedTaskRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.base.Exists(ctx, id)
}

type cachedTask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Notes     *string    `json:"notes,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int64      `json:"version"`
}

func (r *cachedTaskRepository) load(ctx context.Context, id string) (*domain.Task, bool) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		r.logger.Warn("task cache read failed", zap.String("task_id", id), zap.Error(err))
		return nil, false
	}
	raw, ok := fields["data"]
	if !ok || fields["version"] == deletedVersion {
		return nil, false
	}

	var entry cachedTask
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		r.logger.Warn("task cache entry corrupt", zap.String("task_id", id), zap.Error(err))
		r.evict(ctx, id)
		return nil, false
	}
	return &domain.Task{
		ID:        entry.ID,
		Title:     entry.Title,
		Notes:     entry.Notes,
		DueDate:   entry.DueDate,
		Done:      entry.Done,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
		Version:   entry.Version,
	}, true
}

// store puts task under mode "fill" (miss path) or "write" (after a successful write).
func (r *cachedTaskRepository) store(ctx context.Context, mode string, task *domain.Task) {
	if task == nil {
		return
	}
	payload, err := json.Marshal(cachedTask{
		ID:        task.ID,
		Title:     task.Title,
		Notes:     task.Notes,
		DueDate:   task.DueDate,
		Done:      task.Done,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
		Version:   task.Version,
	})
	if err != nil {
		return
	}
	r.put(ctx, task.ID, mode, strconv.FormatInt(task.Version, 10), payload, r.ttl)
}

func (r *cachedTaskRepository) tombstone(ctx context.Context, id string) {
	r.put(ctx, id, "tombstone", deletedVersion, nil, min(tombstoneTTL, r.ttl))
}

func (r *cachedTaskRepository) put(ctx context.Context, id, mode, version string, payload []byte, ttl time.Duration) {
	err := putEntry.Run(ctx, r.client, []string{r.key(id)}, mode, version, payload, ttl.Milliseconds()).Err()
	if err != nil {
		r.logger.Warn("task cache write failed", zap.String("task_id", id), zap.String("mode", mode), zap.Error(err))
	}
}

func (r *cachedTaskRepository) evict(ctx context.Context, id string) {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		r.logger.Warn("task cache evict failed", zap.String("task_id", id), zap.Error(err))
	}
}

func (r *cachedTaskRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
