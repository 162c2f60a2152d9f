package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// UpdateDBStats copies the profile store pool statistics. Anything other
// than sql.DBStats is ignored.
func (m *Metrics) UpdateDBStats(statsInterface interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		stats, ok := statsInterface.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		m.statsMu.Lock()
		defer m.statsMu.Unlock()
		if waits := stats.WaitCount - m.lastStats.WaitCount; waits > 0 {
			m.DBConnectionWaitTotal.Add(float64(waits))
		}
		if waited := stats.WaitDuration - m.lastStats.WaitDuration; waited > 0 {
			m.DBConnectionWaitDuration.Add(waited.Seconds())
		}
		m.lastStats = stats
	})
}

// RecordDBQuery records one gorm statement against a profile table
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		if table == "" {
			table = "unknown"
		}
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
