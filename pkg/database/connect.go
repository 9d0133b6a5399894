package database

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
)

const retryInterval = 5 * time.Second

// Connect opens the configured database, registers metric callbacks and migrates models.
// When the first attempt fails it keeps retrying until ctx is done, in which case nil is returned.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger, recorder MetricsRecorder, models ...interface{}) *gorm.DB {
	dbConfig := Config{
		DSN:             cfg.GetDSN(),
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	prepare := func(db *gorm.DB) {
		if recorder != nil {
			if err := RegisterMetricsCallbacks(db, recorder); err != nil {
				log.Warn("Failed to register database metrics callbacks", zap.Error(err))
			}
		}
		if cfg.AutoMigrate && len(models) > 0 {
			if err := SafeAutoMigrate(db, log, models...); err != nil {
				log.Warn("Failed to run database migrations", zap.Error(err))
			}
		}
	}

	db, err := New(dbConfig)
	if err == nil {
		log.Info("Database connected successfully")
		prepare(db)
		SetDB(db)
		return db
	}

	log.Warn("Failed to connect to database on startup, retrying in background",
		zap.Duration("retry_interval", retryInterval),
		zap.Error(err))

	connected := make(chan *gorm.DB, 1)
	NewAsync(ctx, dbConfig, retryInterval, log, func(db *gorm.DB) {
		prepare(db)
		connected <- db
	})

	select {
	case db := <-connected:
		return db
	case <-ctx.Done():
		return nil
	}
}
