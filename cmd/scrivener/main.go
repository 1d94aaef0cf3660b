// Package main is the entry point for the scrivener CLI.
//
// The default command starts the MCP stdio server; inspection commands
// (status, plans, todos) read the same metadata document for humans, and
// set-key manages the audit API key in the system keychain.
package main

import (
	"fmt"
	"os"

	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/mcp"

	"github.com/spf13/cobra"
)

var projectRoot string

func main() {
	root := &cobra.Command{
		Use:   "scrivener",
		Short: "Project metadata server for AI-assisted development",
		Long: "scrivener keeps plans, todos, documentation, recent changes and\n" +
			"per-file audit status in a single JSON document next to your project,\n" +
			"and serves them to AI agents over MCP.",
		SilenceUsage: true,
		// Running the bare binary starts the server, which is how MCP
		// clients are configured to launch it.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.PersistentFlags().StringVar(&projectRoot, "project-root", "", "project root directory (defaults to config, then the working directory)")

	root.AddCommand(serveCmd(), statusCmd(), plansCmd(), todosCmd(), setKeyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if projectRoot != "" {
		cfg.ProjectRoot = projectRoot
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP stdio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logger := logging.GetDefault()

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("Startup failed", "error", err)
		return err
	}

	srv, err := mcp.NewServer(cfg, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		return err
	}
	return srv.Start()
}
