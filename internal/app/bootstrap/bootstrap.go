package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	taskcomments "taskboard/contexts/crm/task-comments-service"
	"taskboard/contexts/crm/task-comments-service/adapters/hashing"
	"taskboard/contexts/crm/task-comments-service/adapters/memory"
	postgresadapter "taskboard/contexts/crm/task-comments-service/adapters/postgres"
	"taskboard/contexts/crm/task-comments-service/adapters/tokens"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/db"
	"taskboard/internal/platform/httpserver"
	"taskboard/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

// BuildAPI wires the API process. Without DATABASE_URL the module runs on the
// in-memory store; config.Load already refuses that in production.
func BuildAPI(cfg config.Config, version string, logger *slog.Logger) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("process", "api")

	opts := httpserver.Options{
		Addr:            cfg.Addr(),
		Version:         version,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Metrics:         metrics.New(),
	}

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store",
			"event", "bootstrap_in_memory_store",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		module, err := buildModule(cfg, nil, logger)
		if err != nil {
			return nil, err
		}
		return &APIApp{
			server: httpserver.New(module, logger, opts),
			logger: logger,
		}, nil
	}

	if cfg.AutoMigrate {
		if err := MigrateUp(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
	}

	pg, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	module, err := buildModule(cfg, pg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	opts.Health = pg.Ping
	return &APIApp{
		server:   httpserver.New(module, logger, opts),
		postgres: pg,
		logger:   logger,
	}, nil
}

func buildModule(cfg config.Config, pg *db.Postgres, logger *slog.Logger) (taskcomments.Module, error) {
	codec, err := tokens.NewCodec(tokens.Config{
		Secret:     []byte(cfg.SecretKey),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		return taskcomments.Module{}, fmt.Errorf("build token codec: %w", err)
	}
	deps := taskcomments.Dependencies{
		Hasher:   hashing.NewArgon2idHasher(hashing.DefaultArgon2Params()),
		Digester: hashing.SHA256TokenDigester{},
		Tokens:   codec,
		Logger:   logger,
	}

	if pg == nil {
		store := memory.NewStore()
		deps.Users, deps.Tasks, deps.Comments = store, store, store
		deps.Clock, deps.IDGenerator = store, store
		module := taskcomments.NewModule(deps)
		module.Store = store
		return module, nil
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	deps.Users, deps.Tasks, deps.Comments = repo, repo, repo
	deps.Clock = postgresadapter.SystemClock{}
	deps.IDGenerator = postgresadapter.UUIDGenerator{}
	return taskcomments.NewModule(deps), nil
}

// MigrateUp applies every pending embedded migration.
func MigrateUp(databaseURL string, logger *slog.Logger) error {
	migrator, err := db.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Up(); err != nil {
		return err
	}
	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	logger.Info("database migrated",
		"event", "bootstrap_database_migrated",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"version", version,
		"dirty", dirty,
	)
	return nil
}

// Run serves until ctx is cancelled.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start(ctx)
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}
