package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector collects business metrics periodically
type BusinessMetricsCollector struct {
	db       *gorm.DB
	sessions func() int
	metrics  *Metrics
	logger   *zap.Logger
	ticker   *time.Ticker
	done     chan bool
}

// NewBusinessMetricsCollector creates a new collector.
// sessions reports the live session count; db may be nil when profiles are
// stored remotely.
func NewBusinessMetricsCollector(db *gorm.DB, sessions func() int, metrics *Metrics, logger *zap.Logger) *BusinessMetricsCollector {
	return &BusinessMetricsCollector{
		db:       db,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		ticker:   time.NewTicker(60 * time.Second),
		done:     make(chan bool),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		// 즉시 한 번 수집
		c.collect()

		// 주기적 수집
		for {
			select {
			case <-c.ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	c.ticker.Stop()
	c.done <- true
}

// collect gathers business metrics
func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	if c.sessions != nil {
		c.metrics.SetSessionsActive(c.sessions())
	}

	if c.db == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var profileCount int64
	if err := c.db.WithContext(ctx).Table("profiles").Count(&profileCount).Error; err != nil {
		c.logger.Error("Failed to count profiles", zap.Error(err))
	} else {
		c.metrics.SetProfilesTotal(profileCount)
	}
}
