// Package common provides shared dependency construction for CLI commands.
package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/saspirant/notifier/internal/config"
	"github.com/saspirant/notifier/internal/database"
	"github.com/saspirant/notifier/internal/logger"
	"github.com/saspirant/notifier/internal/orchestrator"
)

// Deps bundles the dependencies every command needs: configuration, a logger,
// a database handle, and the repository set built on it.
type Deps struct {
	Config  *config.Config
	Logger  logger.Interface
	DB      *sqlx.DB
	Sources *database.SourceRepository
	Stores  orchestrator.Stores
}

// NewDeps loads configuration, constructs the logger, and connects to the
// database. The caller owns the returned DB handle and must Close it.
func NewDeps(ctx context.Context, cfgFile string, debug bool) (*Deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if debug {
		cfg.App.Debug = true
		cfg.Logger.Level = "debug"
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.ApplySchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply database schema: %w", err)
	}

	sources := database.NewSourceRepository(db)
	stores := orchestrator.NewStores(
		sources,
		database.NewNotificationRepository(db),
		database.NewUserRepository(db),
		database.NewPreferenceRepository(db),
		database.NewSentAlertRepository(db),
	)

	return &Deps{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Sources: sources,
		Stores:  stores,
	}, nil
}
