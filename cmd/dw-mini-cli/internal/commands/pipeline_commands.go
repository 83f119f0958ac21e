package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leonemendes/dw-mini/internal/app"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence"
	"github.com/leonemendes/dw-mini/internal/infrastructure/queue"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// PipelineCommandHandler encapsulates logic for driving import pipelines via CLI.
type PipelineCommandHandler struct {
	pipelineService tasks.PipelineService
	logger          logger.Logger
}

// NewPipelineCommandHandler initializes and returns a PipelineCommandHandler
// connected to the metadata store and the task broker.
func NewPipelineCommandHandler() (*PipelineCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	sourceRepo, err := persistence.NewGormDataSourceRepository(db, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source repository: %w", err)
	}

	ctx := context.Background()
	redisClient, err := queue.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	taskQueue, err := queue.NewRedisTaskQueue(redisClient, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create task queue: %w", err)
	}

	statuses, err := queue.NewRedisStatusStore(redisClient, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create status store: %w", err)
	}

	pipelineService, err := app.NewPipelineService(sourceRepo, taskQueue, statuses, loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline service: %w", err)
	}

	return &PipelineCommandHandler{
		pipelineService: pipelineService,
		logger:          loggerInstance,
	}, nil
}

// StartPipelineCmd queues a full extract/load run for a data source
func (commandHandler *PipelineCommandHandler) StartPipelineCmd(cmd *cobra.Command, _ []string) {
	sourceID, err := cmd.Flags().GetString("source-id")
	if err != nil {
		commandHandler.logger.Error("invalid source-id flag ", err)
		return
	}

	taskID, err := commandHandler.pipelineService.StartPipeline(context.Background(), sourceID)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Pipeline queued with task ID ", taskID)
}

// DiscoverSchemaCmd queues schema discovery for one table of a data source
func (commandHandler *PipelineCommandHandler) DiscoverSchemaCmd(cmd *cobra.Command, _ []string) {
	sourceID, err := cmd.Flags().GetString("source-id")
	if err != nil {
		commandHandler.logger.Error("invalid source-id flag ", err)
		return
	}

	tableName, err := cmd.Flags().GetString("table")
	if err != nil {
		commandHandler.logger.Error("invalid table flag ", err)
		return
	}

	taskID, err := commandHandler.pipelineService.DiscoverSchema(context.Background(), sourceID, tableName)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Schema discovery queued with task ID ", taskID)
}

// TaskStatusCmd prints the current state of a task
func (commandHandler *PipelineCommandHandler) TaskStatusCmd(cmd *cobra.Command, _ []string) {
	taskID, err := cmd.Flags().GetString("task-id")
	if err != nil {
		commandHandler.logger.Error("invalid task-id flag ", err)
		return
	}

	status, err := commandHandler.pipelineService.TaskStatus(context.Background(), taskID)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	encoded, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	fmt.Println(string(encoded))
}

// InitPipelineCommands registers pipeline-related commands
func InitPipelineCommands(rootCmd *cobra.Command) error {
	handler, err := NewPipelineCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create pipeline command handler %w", err)
	}

	var startPipelineCmd = &cobra.Command{
		Use:   "start-pipeline",
		Short: "Queue a full extract/load run for a data source",
		Run:   handler.StartPipelineCmd,
	}
	startPipelineCmd.Flags().StringP("source-id", "", "", "ID of the registered data source")
	rootCmd.AddCommand(startPipelineCmd)

	var discoverSchemaCmd = &cobra.Command{
		Use:   "discover-schema",
		Short: "Queue schema discovery for a source table",
		Run:   handler.DiscoverSchemaCmd,
	}
	discoverSchemaCmd.Flags().StringP("source-id", "", "", "ID of the registered data source")
	discoverSchemaCmd.Flags().StringP("table", "", "", "Table to discover")
	rootCmd.AddCommand(discoverSchemaCmd)

	var taskStatusCmd = &cobra.Command{
		Use:   "task-status",
		Short: "Show the status of a queued task",
		Run:   handler.TaskStatusCmd,
	}
	taskStatusCmd.Flags().StringP("task-id", "", "", "Task ID returned when queueing")
	rootCmd.AddCommand(taskStatusCmd)

	return nil
}
