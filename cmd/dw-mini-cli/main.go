// Package main is the entry point for the dw-mini-cli application.
// It initializes the root command and registers sub-commands for inspecting
// source databases and driving import pipelines, then executes the
// command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/leonemendes/dw-mini/cmd/dw-mini-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "dw-mini-cli",
		Short: "Data warehouse pipeline CLI tool",
		Long: `dw-mini-cli is a command-line tool for operating import pipelines.
Supports listing tables and inspecting schemas of source Postgres databases,
starting extract/load pipeline runs and polling task status.

Broker and metadata store connections are read from the environment
(REDIS_URL, DB_DSN and friends), optionally via an ENV_FILE dotenv file.`,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	// Register source inspection commands
	if err := commands.InitSourceCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize source commands: %w", err)
	}

	// Register pipeline commands
	if err := commands.InitPipelineCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize pipeline commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
