package redis

import (
	"context"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
)

const (
	clientName     = "todo-task-cache"
	defaultTimeout = 200 * time.Millisecond
	connectTimeout = 5 * time.Second
)

// NewClient connects the read-through task cache. Every command is bounded by
// cfg.Timeout and retried at most once, after which the cached repository falls
// back to storage. Startup fails when the server cannot be reached.
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*goRedis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := cacheOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("task cache connected",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Duration("timeout", opts.ReadTimeout),
		zap.Duration("ttl", cfg.CacheTTL),
	)
	return client, nil
}

func cacheOptions(cfg config.RedisConfig) (*goRedis.Options, error) {
	opts, err := goRedis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts.ClientName = clientName
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout
	opts.MaxRetries = 1
	opts.ContextTimeoutEnabled = true

	return opts, nil
}
