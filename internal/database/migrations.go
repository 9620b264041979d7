package database

import (
	"fmt"

	"gorm.io/gorm"

	"propertylens/internal/models"
)

// MigrateSchema creates or updates every table and the listing indexes.
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.AnalysisRecord{},
		&models.PreferencesRecord{},
		&models.TelegramConfig{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Listing filters by verdict and sorts newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_analysis_records_verdict_created
		ON analysis_records(verdict, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("failed to create listing index: %w", err)
	}

	return nil
}
