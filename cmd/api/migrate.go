package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/app/bootstrap"
	"taskboard/internal/platform/db"
)

var errDatabaseURLRequired = errors.New("DATABASE_URL environment variable is required")

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration (drops all data)",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		RunE:  runMigrateVersion,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Set the recorded version and clear the dirty flag without migrating",
		Args:  cobra.ExactArgs(1),
		RunE:  runMigrateForce,
	})
	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}
	if err := bootstrap.MigrateUp(cfg.DatabaseURL, logger); err != nil {
		return err
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator()
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Down(); err != nil {
		return err
	}
	cmd.Println("All migrations rolled back")
	return nil
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator()
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	cmd.Printf("version=%d dirty=%t\n", version, dirty)
	return nil
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := parseForceVersion(args[0])
	if err != nil {
		return err
	}
	migrator, err := openMigrator()
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Force(version); err != nil {
		return err
	}
	cmd.Printf("Forced migration version to %d\n", version)
	return nil
}

// parseForceVersion accepts a non-negative integer.
func parseForceVersion(raw string) (int, error) {
	version, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || version < 0 {
		return 0, fmt.Errorf("invalid migration version %q: must be a non-negative integer", raw)
	}
	return version, nil
}

func openMigrator() (*db.Migrator, error) {
	cfg, _, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errDatabaseURLRequired
	}
	return db.NewMigrator(cfg.DatabaseURL)
}
