// cmd/dw-mini-worker/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leonemendes/dw-mini/internal/infrastructure/extract"
	"github.com/leonemendes/dw-mini/internal/infrastructure/load"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence/models"
	"github.com/leonemendes/dw-mini/internal/infrastructure/queue"
	"github.com/leonemendes/dw-mini/internal/infrastructure/staging"
	"github.com/leonemendes/dw-mini/internal/infrastructure/worker"
	"github.com/leonemendes/dw-mini/internal/pkg/config"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	cfg, err := config.LoadAppConfig(envFile)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}

	if err := db.AutoMigrate(&models.EventModel{}, &models.DataSourceModel{}, &models.ImportJobModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Initialize repositories
	sourceRepo, err := persistence.NewGormDataSourceRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create data source repository: %w", err)
	}

	jobRepo, err := persistence.NewGormImportJobRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create import job repository: %w", err)
	}

	// Initialize broker and stores
	redisClient, err := queue.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	taskQueue, err := queue.NewRedisTaskQueue(redisClient, log)
	if err != nil {
		return fmt.Errorf("failed to create task queue: %w", err)
	}

	statuses, err := queue.NewRedisStatusStore(redisClient, log)
	if err != nil {
		return fmt.Errorf("failed to create status store: %w", err)
	}

	stages, err := staging.NewMinioStageStore(ctx, &cfg.Staging, log)
	if err != nil {
		return fmt.Errorf("failed to create stage store: %w", err)
	}

	// Initialize extract and load backends
	extractor, err := extract.NewPostgresExtractor(log)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	loader, err := load.NewClickHouseLoader(ctx, &cfg.ClickHouse, log)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}

	w, err := worker.NewWorker(taskQueue, statuses, stages, extractor, loader, sourceRepo, jobRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	// Start the retention scheduler for completed import jobs
	scheduler, err := worker.NewCleanupScheduler(jobRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Handle shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		log.Info("Received signal ", sig, ", shutting down worker")
		cancel()
	}()

	log.Info("Worker started, consuming task queues")
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("worker stopped: %w", err)
	}

	log.Info("Worker stopped gracefully")
	return nil
}
