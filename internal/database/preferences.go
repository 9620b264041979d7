package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"propertylens/internal/models"
)

// preferencesID is the row holding the single user profile.
const preferencesID = 1

// GetPreferences returns the stored profile, or the documented defaults when
// none has been saved yet.
func (d *Database) GetPreferences() (models.InvestmentPreferences, error) {
	var record models.PreferencesRecord
	err := d.db.Where("id = ?", preferencesID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.InvestmentPreferences{}, fmt.Errorf("failed to get preferences: %w", err)
	}
	return record.Preferences, nil
}

// HasPreferences reports whether a profile has been saved.
func (d *Database) HasPreferences() (bool, error) {
	var count int64
	if err := d.db.Model(&models.PreferencesRecord{}).Where("id = ?", preferencesID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check preferences: %w", err)
	}
	return count > 0, nil
}

func (d *Database) SavePreferences(prefs models.InvestmentPreferences) error {
	record := models.PreferencesRecord{ID: preferencesID, Preferences: prefs}
	if err := d.db.Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// GetTelegramConfig returns nil when Telegram has never been configured.
func (d *Database) GetTelegramConfig() (*models.TelegramConfig, error) {
	var config models.TelegramConfig
	err := d.db.Order("id ASC").First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get telegram config: %w", err)
	}
	return &config, nil
}

// UpdateTelegramConfig creates or replaces the single Telegram configuration.
// A nil Filters in the request keeps the stored filters.
func (d *Database) UpdateTelegramConfig(request *models.TelegramConfigRequest) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var config models.TelegramConfig
		err := tx.Order("id ASC").First(&config).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load telegram config: %w", err)
		}

		config.IsEnabled = request.IsEnabled
		config.BotToken = request.BotToken
		config.ChatID = request.ChatID
		if request.Filters != nil {
			config.Filters = *request.Filters
		}

		if err := tx.Save(&config).Error; err != nil {
			return fmt.Errorf("failed to save telegram config: %w", err)
		}
		return nil
	})
}
