package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/binalerts/binalerts/internal/domain/collection"
	"github.com/binalerts/binalerts/internal/domain/import/reconciler"
	importservice "github.com/binalerts/binalerts/internal/domain/import/service"
	"github.com/binalerts/binalerts/internal/domain/street"
	"github.com/binalerts/binalerts/pkg/config"
	"github.com/binalerts/binalerts/pkg/db"
)

// Dependencies holds everything the import command needs
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	StreetRepo     street.Repository
	CollectionRepo collection.Repository

	Reconciler *reconciler.Reconciler
	Policy     *collection.Policy
	Importer   *importservice.Service
}

// InitDependencies wires the repositories, reconciler, upsert policy
// and import service against a live database.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	database, err := db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	deps.DB = database

	if err := deps.DB.RunMigrations(); err != nil {
		deps.DB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	deps.StreetRepo = street.NewPostgresRepository(database.Pool)
	deps.CollectionRepo = collection.NewPostgresRepository(database.Pool)

	deps.Reconciler = reconciler.New(deps.StreetRepo, cfg.Import.StreetsMustHavePostcode, logger)
	deps.Policy = collection.NewPolicy(deps.CollectionRepo, cfg.Import.AllowMultipleCollectionsPerWeek)
	deps.Importer = importservice.New(deps.CollectionRepo, deps.Reconciler, deps.Policy, cfg.Import, logger)

	logger.Info("dependencies initialized")
	return deps, nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
}
