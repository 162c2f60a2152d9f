package metrics

import (
	"strings"
	"time"
)

// IncrementSessionCreated increments session creation counter
func (m *Metrics) IncrementSessionCreated() {
	m.safeExecute("IncrementSessionCreated", func() {
		m.SessionCreatedTotal.Inc()
	})
}

// SetSessionsActive sets live sessions gauge
func (m *Metrics) SetSessionsActive(count int) {
	m.safeExecute("SetSessionsActive", func() {
		m.SessionsActive.Set(float64(count))
	})
}

// IncrementProfileCreated increments profile creation counter
func (m *Metrics) IncrementProfileCreated() {
	m.safeExecute("IncrementProfileCreated", func() {
		m.ProfileCreatedTotal.Inc()
	})
}

// SetProfilesTotal sets total profiles gauge
func (m *Metrics) SetProfilesTotal(count int64) {
	m.safeExecute("SetProfilesTotal", func() {
		m.ProfilesTotal.Set(float64(count))
	})
}

// RecordProfileSave records the outcome of a debounced save
func (m *Metrics) RecordProfileSave(err error) {
	m.safeExecute("RecordProfileSave", func() {
		m.ProfileSavesTotal.WithLabelValues(outcome(err)).Inc()
	})
}

// RecordExport records an executed export
func (m *Metrics) RecordExport(format string, duration time.Duration, err error) {
	m.safeExecute("RecordExport", func() {
		format = strings.ToLower(format)
		m.ExportsTotal.WithLabelValues(format, outcome(err)).Inc()
		m.ExportDuration.WithLabelValues(format).Observe(duration.Seconds())
	})
}

// IncrementDependencyFallback counts dependency saves without a resolvable target
func (m *Metrics) IncrementDependencyFallback() {
	m.safeExecute("IncrementDependencyFallback", func() {
		m.DependencyFallbacksTotal.Inc()
	})
}

// IncrementModeLockConflict counts rejected mode changes
func (m *Metrics) IncrementModeLockConflict() {
	m.safeExecute("IncrementModeLockConflict", func() {
		m.ModeLockConflictsTotal.Inc()
	})
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
