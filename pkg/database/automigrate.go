package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SafeAutoMigrate migrates models one by one, logging whether each table is created or updated.
// Existing tables only gain missing columns and indexes.
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger, models ...interface{}) error {
	migrator := db.Migrator()

	logger.Info("Starting safe auto-migration", zap.Int("total_models", len(models)))

	for _, model := range models {
		table := tableName(db, model)

		if migrator.HasTable(model) {
			logger.Info("Table exists, updating schema only", zap.String("table", table))
		} else {
			logger.Info("Table does not exist, creating new table", zap.String("table", table))
		}

		if err := db.AutoMigrate(model); err != nil {
			logger.Error("Failed to migrate table", zap.String("table", table), zap.Error(err))
			return fmt.Errorf("failed to migrate %s: %w", table, err)
		}
	}

	logger.Info("Safe auto-migration completed successfully")
	return nil
}

func tableName(db *gorm.DB, model interface{}) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Sprintf("%T", model)
	}
	return stmt.Schema.Table
}
