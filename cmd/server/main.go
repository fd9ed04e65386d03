package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/boltdb"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/todo/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/todo/internal/infrastructure/redis"
	"github.com/fastygo/todo/internal/middleware"
	"github.com/fastygo/todo/internal/router"
	"github.com/fastygo/todo/internal/services/lifecycle"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/pkg/logger"
	"github.com/fastygo/todo/repository"
	boltRepo "github.com/fastygo/todo/repository/bolt"
	"github.com/fastygo/todo/repository/postgres"
	redisRepo "github.com/fastygo/todo/repository/redis"
	taskUC "github.com/fastygo/todo/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.Listen(context.Background())
	defer cancel()

	mon := monitor.New(cfg.Monitor.Interval, zapLogger)

	var taskRepo repository.TaskRepository
	switch cfg.Storage.Driver {
	case config.StorageDriverBolt:
		db, err := boltdb.Open(cfg.Storage.BoltPath, zapLogger, boltRepo.TasksBucket)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return db.Close()
		})
		mon.Register("bolt", func(ctx context.Context) error { return boltdb.Ping(db) })
		taskRepo = boltRepo.NewTaskRepository(db)
	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		mon.Register("postgresql", pool.Ping)
		taskRepo = postgres.NewTaskRepository(pool)
	}

	if cfg.Redis.Enabled() {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		mon.Register("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		taskRepo = redisRepo.NewCachedTaskRepository(taskRepo, redisClient, cfg.Redis.CacheTTL, zapLogger)
	}

	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	taskUseCase := taskUC.New(taskRepo, taskUC.Config{
		DefaultPageSize: cfg.Tasks.DefaultPageSize,
		MaxPageSize:     cfg.Tasks.MaxPageSize,
	}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	r := router.New(router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	})

	server := &fasthttp.Server{
		Handler:      middleware.Chain(r.Handler, middleware.AccessLog(zapLogger), middleware.RequestID(), middleware.CORS()),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("cache", cfg.Redis.Enabled()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Error("server stopped with error", zap.Error(err))
			cancel()
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
