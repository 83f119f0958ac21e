// cmd/dw-mini-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	v1 "github.com/leonemendes/dw-mini/internal/api/rest/v1"
	"github.com/leonemendes/dw-mini/internal/app"
	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/infrastructure/extract"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence/models"
	"github.com/leonemendes/dw-mini/internal/infrastructure/queue"
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

	// Initialize application dependencies
	services, err := initializeDependencies(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(cfg, services, log)
}

// appServices holds all initialized application services
type appServices struct {
	events   events.EventService
	sources  sources.SourceService
	pipeline tasks.PipelineService
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.AppConfig, log logger.Logger) (*appServices, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(&models.EventModel{}, &models.DataSourceModel{}, &models.ImportJobModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories
	eventRepo, err := persistence.NewGormEventRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create event repository: %w", err)
	}

	sourceRepo, err := persistence.NewGormDataSourceRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source repository: %w", err)
	}

	// Initialize broker clients
	ctx := context.Background()
	redisClient, err := queue.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	taskQueue, err := queue.NewRedisTaskQueue(redisClient, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task queue: %w", err)
	}

	statuses, err := queue.NewRedisStatusStore(redisClient, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create status store: %w", err)
	}

	// Initialize extractor for synchronous metadata operations
	extractor, err := extract.NewPostgresExtractor(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	// Initialize services
	eventService, err := app.NewEventService(eventRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create event service: %w", err)
	}

	sourceService, err := app.NewSourceService(sourceRepo, extractor, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create source service: %w", err)
	}

	pipelineService, err := app.NewPipelineService(sourceRepo, taskQueue, statuses, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		events:   eventService,
		sources:  sourceService,
		pipeline: pipelineService,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.AppConfig, services *appServices, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r, services.events, services.sources, services.pipeline)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
