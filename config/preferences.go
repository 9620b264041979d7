package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"propertylens/internal/models"
)

var validate = validator.New()

// LoadPreferences reads a TOML preference file on top of the documented
// defaults, so keys absent from the file keep their default values. An empty
// path returns the defaults.
func LoadPreferences(path string) (models.InvestmentPreferences, error) {
	prefs := models.DefaultPreferences()
	if path == "" {
		return prefs, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return prefs, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return prefs, fmt.Errorf("failed to read preferences file: %w", err)
	}

	if err := toml.Unmarshal(data, &prefs); err != nil {
		return models.DefaultPreferences(), fmt.Errorf("failed to parse preferences file: %w", err)
	}

	if err := ValidatePreferences(prefs); err != nil {
		return models.DefaultPreferences(), err
	}
	return prefs, nil
}

// SavePreferences writes prefs as TOML.
func SavePreferences(path string, prefs models.InvestmentPreferences) error {
	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}
	return nil
}

// ValidatePreferences checks the struct tags on InvestmentPreferences and
// reports every failing field in one error.
func ValidatePreferences(prefs models.InvestmentPreferences) error {
	err := validate.Struct(prefs)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate preferences: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid preferences: %s", strings.Join(problems, "; "))
}
