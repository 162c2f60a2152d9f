package database

import (
	"time"

	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start_time"

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks registers GORM callbacks that time every
// select, insert, update and delete statement
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	cb := db.Callback()

	_ = cb.Query().Before("gorm:query").Register("metrics:query_before", startTimer)
	_ = cb.Query().After("gorm:query").Register("metrics:query_after", stopTimer(recorder, "select"))

	_ = cb.Create().Before("gorm:create").Register("metrics:create_before", startTimer)
	_ = cb.Create().After("gorm:create").Register("metrics:create_after", stopTimer(recorder, "insert"))

	_ = cb.Update().Before("gorm:update").Register("metrics:update_before", startTimer)
	_ = cb.Update().After("gorm:update").Register("metrics:update_after", stopTimer(recorder, "update"))

	_ = cb.Delete().Before("gorm:delete").Register("metrics:delete_before", startTimer)
	_ = cb.Delete().After("gorm:delete").Register("metrics:delete_after", stopTimer(recorder, "delete"))
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func stopTimer(recorder MetricsRecorder, operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		startTime, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(startTime.(time.Time)), db.Error)
	}
}

// StartDBStatsCollector starts periodic DB pool stats collection.
// Close the returned channel to stop it.
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
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
