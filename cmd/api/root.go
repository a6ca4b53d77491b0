package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"taskboard/internal/platform/config"
	"taskboard/internal/platform/logging"
)

// NewRootCmd creates the root command for the taskboard CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "taskboard - users, tasks and comments REST API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadRuntime reads configuration and installs the process logger.
func loadRuntime() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.Setup(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat, nil)
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
