package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/persistence"
	"github.com/go-playground/validator/v10"
)

// Settings reads and writes the global push configuration.
type Settings struct {
	repo     persistence.SettingsRepository
	validate *validator.Validate
}

// NewSettings creates a settings service over p.
func NewSettings(p *persistence.Persistence) *Settings {
	return &Settings{
		repo:     p.SettingsRepository(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load returns the saved settings, defaulted where nothing was saved.
func (s *Settings) Load(ctx context.Context) (models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}

	return settings, nil
}

// Save validates and stores both values.
func (s *Settings) Save(ctx context.Context, settings models.Settings) error {
	settings.BackendURL = strings.TrimSpace(settings.BackendURL)
	settings.APIKey = strings.TrimSpace(settings.APIKey)

	err := s.validate.Struct(settings)
	if err != nil {
		return NewValidationError("Save", "INVALID_SETTINGS", err.Error(), ErrInvalidSettings)
	}

	err = s.repo.Save(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// SetAPIKey stores only the API key, leaving the backend URL untouched.
func (s *Settings) SetAPIKey(ctx context.Context, apiKey string) error {
	err := s.repo.SaveAPIKey(ctx, strings.TrimSpace(apiKey))
	if err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}

	return nil
}
