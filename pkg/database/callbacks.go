package database

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats sql.DBStats)
}

// RegisterMetricsCallbacks times every query, create, update, delete and raw statement
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	cb := db.Callback()

	return errors.Join(
		cb.Query().Before("gorm:query").Register("metrics:select_before", markStart),
		cb.Query().After("gorm:query").Register("metrics:select_after", recordAfter(recorder, "select")),

		cb.Create().Before("gorm:create").Register("metrics:insert_before", markStart),
		cb.Create().After("gorm:create").Register("metrics:insert_after", recordAfter(recorder, "insert")),

		cb.Update().Before("gorm:update").Register("metrics:update_before", markStart),
		cb.Update().After("gorm:update").Register("metrics:update_after", recordAfter(recorder, "update")),

		cb.Delete().Before("gorm:delete").Register("metrics:delete_before", markStart),
		cb.Delete().After("gorm:delete").Register("metrics:delete_after", recordAfter(recorder, "delete")),

		cb.Raw().Before("gorm:raw").Register("metrics:raw_before", markStart),
		cb.Raw().After("gorm:raw").Register("metrics:raw_after", recordAfter(recorder, "raw")),

		cb.Row().Before("gorm:row").Register("metrics:row_before", markStart),
		cb.Row().After("gorm:row").Register("metrics:row_after", recordAfter(recorder, "row")),
	)
}

func markStart(tx *gorm.DB) {
	tx.InstanceSet(startTimeKey, time.Now())
}

func recordAfter(recorder MetricsRecorder, operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		startTime, ok := tx.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(startTime.(time.Time)), tx.Error)
	}
}

// StartDBStatsCollector starts periodic connection pool stats collection.
// Close the returned channel to stop it.
func StartDBStatsCollector(db func() *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		interval = 15 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				conn := db()
				if conn == nil {
					continue
				}
				sqlDB, err := conn.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
