package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/placesync/internal/config"
	"github.com/yungbote/placesync/internal/data/db"
	"github.com/yungbote/placesync/internal/data/repos"
	"github.com/yungbote/placesync/internal/platform/logger"
)

type App struct {
	Log   *logger.Logger
	Cfg   config.Config
	DB    *gorm.DB
	Repos repos.Repos

	pg *db.PostgresService
}

// New wires logger, config, store and repos. It blocks until the store
// answers a probe or the retry budget is spent, then migrates the schema.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("configuration loaded",
		"db_host", cfg.DBHost,
		"db_name", cfg.DBName,
		"data_path", cfg.DataPath,
		"max_retries", cfg.MaxRetries)

	probe := db.DSNProber(cfg.DSN())
	if err := db.WaitForReady(ctx, probe, cfg.MaxRetries, db.DefaultProbeInterval, log); err != nil {
		log.Sync()
		return nil, err
	}

	pg, err := db.NewPostgresService(cfg, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	if err := db.EnsureIngestIndexes(pg.DB()); err != nil {
		log.Sync()
		return nil, fmt.Errorf("ensure ingest indexes: %w", err)
	}

	return &App{
		Log:   log,
		Cfg:   cfg,
		DB:    pg.DB(),
		Repos: repos.New(pg.DB(), log),
		pg:    pg,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.pg != nil {
		_ = a.pg.Close()
		a.pg = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
