package cmd

import (
	"fmt"

	"sprite-index/core/config"
	"sprite-index/core/database"
	"sprite-index/core/logger"
	"sprite-index/core/storage"
	"sprite-index/feature/sprite"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env bundles what every sprite command needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
	db     *gorm.DB
	svc    *sprite.Service
}

// setup loads configuration and wires the sprite service. The database is
// optional unless requireDB is set.
func setup(requireDB bool) (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		if requireDB {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		l.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
		l = l.With(zap.String("database", cfg.Database.Driver))
	}

	svc, err := sprite.NewService(cfg.Sprite, client, cfg.Storage.Bucket, l, db)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: l, client: client, db: db, svc: svc}, nil
}
