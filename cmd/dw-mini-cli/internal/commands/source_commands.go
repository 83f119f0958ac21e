package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/infrastructure/extract"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// SourceCommandHandler encapsulates logic for inspecting source databases via CLI.
type SourceCommandHandler struct {
	extractor sources.Extractor
	logger    logger.Logger
}

// NewSourceCommandHandler initializes and returns a SourceCommandHandler instance with
// configured logger and Postgres extractor.
func NewSourceCommandHandler() (*SourceCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	extractor, err := extract.NewPostgresExtractor(loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	return &SourceCommandHandler{
		extractor: extractor,
		logger:    loggerInstance,
	}, nil
}

func connectionConfigFromFlags(cmd *cobra.Command) (sources.ConnectionConfig, error) {
	var cfg sources.ConnectionConfig
	var err error

	if cfg.Host, err = cmd.Flags().GetString("host"); err != nil {
		return cfg, fmt.Errorf("invalid host flag: %w", err)
	}
	if cfg.Port, err = cmd.Flags().GetInt("port"); err != nil {
		return cfg, fmt.Errorf("invalid port flag: %w", err)
	}
	if cfg.Database, err = cmd.Flags().GetString("database"); err != nil {
		return cfg, fmt.Errorf("invalid database flag: %w", err)
	}
	if cfg.User, err = cmd.Flags().GetString("user"); err != nil {
		return cfg, fmt.Errorf("invalid user flag: %w", err)
	}
	if cfg.Password, err = cmd.Flags().GetString("password"); err != nil {
		return cfg, fmt.Errorf("invalid password flag: %w", err)
	}

	return cfg, nil
}

// ListTablesCmd lists the base tables of a source Postgres database
func (commandHandler *SourceCommandHandler) ListTablesCmd(cmd *cobra.Command, _ []string) {
	connectionConfig, err := connectionConfigFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	tables, err := commandHandler.extractor.ListTables(context.Background(), connectionConfig)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	for _, table := range tables {
		fmt.Println(table)
	}
	commandHandler.logger.Info("Found ", len(tables), " tables")
}

// TableSchemaCmd prints column names, types and nullability for one table
func (commandHandler *SourceCommandHandler) TableSchemaCmd(cmd *cobra.Command, _ []string) {
	connectionConfig, err := connectionConfigFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	tableName, err := cmd.Flags().GetString("table")
	if err != nil {
		commandHandler.logger.Error("invalid table flag ", err)
		return
	}

	schema, err := commandHandler.extractor.GetTableSchema(context.Background(), connectionConfig, tableName)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	encoded, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	fmt.Println(string(encoded))
}

func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("host", "", "localhost", "Source database host")
	cmd.Flags().IntP("port", "", 5432, "Source database port")
	cmd.Flags().StringP("database", "", "", "Source database name")
	cmd.Flags().StringP("user", "", "postgres", "Source database user")
	cmd.Flags().StringP("password", "", "", "Source database password")
}

// InitSourceCommands registers source inspection commands
func InitSourceCommands(rootCmd *cobra.Command) error {
	handler, err := NewSourceCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create source command handler %w", err)
	}

	var listTablesCmd = &cobra.Command{
		Use:   "list-tables",
		Short: "List base tables of a source Postgres database",
		Run:   handler.ListTablesCmd,
	}
	addConnectionFlags(listTablesCmd)
	rootCmd.AddCommand(listTablesCmd)

	var tableSchemaCmd = &cobra.Command{
		Use:   "table-schema",
		Short: "Show the column schema of a source table",
		Run:   handler.TableSchemaCmd,
	}
	addConnectionFlags(tableSchemaCmd)
	tableSchemaCmd.Flags().StringP("table", "", "", "Table to describe")
	rootCmd.AddCommand(tableSchemaCmd)

	return nil
}
