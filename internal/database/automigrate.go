package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"synthdata-wizard-api/internal/domain"
)

// profileModels are the tables of the local profile store
var profileModels = []interface{}{
	&domain.Profile{},
}

// AutoMigrate creates or updates the profile store tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(profileModels...); err != nil {
		return fmt.Errorf("failed to migrate profile store: %w", err)
	}
	return nil
}

// SafeAutoMigrate migrates the profile tables one at a time and logs whether
// each was created or only brought up to date
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()

	for _, model := range profileModels {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("failed to parse profile model: %w", err)
		}
		table := stmt.Schema.Table
		existed := migrator.HasTable(model)

		if err := db.AutoMigrate(model); err != nil {
			logger.Error("Profile table migration failed",
				zap.String("table", table),
				zap.Bool("existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", table, err)
		}

		if existed {
			logger.Info("Profile table schema up to date", zap.String("table", table))
		} else {
			logger.Info("Profile table created", zap.String("table", table))
		}
	}
	return nil
}

// SafeAutoMigrateWithRetry retries SafeAutoMigrate with a linear backoff,
// so the service can start while the profile database is still booting
func SafeAutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = SafeAutoMigrate(db, logger); err == nil {
			logger.Info("Profile store ready", zap.Int("attempt", attempt))
			return nil
		}
		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(attempt) * time.Second
		logger.Warn("Profile store not migrated yet, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		time.Sleep(backoff)
	}

	logger.Error("Giving up on profile store migration",
		zap.Int("attempts", maxRetries),
		zap.Error(err),
	)
	return fmt.Errorf("profile store migration failed after %d attempts: %w", maxRetries, err)
}
