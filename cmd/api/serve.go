package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskboard/internal/app/bootstrap"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Pending migrations are applied first unless
AUTO_MIGRATE=false. Without DATABASE_URL the API runs on an in-memory store.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(cfg, cmd.Root().Version, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	return app.Run(ctx)
}
