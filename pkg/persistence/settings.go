package persistence

import (
	"context"

	"github.com/dukex/timely/pkg/models"
)

// settingsRepository stores each setting as a raw string under its own key.
type settingsRepository struct {
	store Store
}

// Get returns the saved settings, falling back to models.DefaultSettings for
// values that were never saved.
func (r *settingsRepository) Get(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()

	backendURL, found, err := r.value(ctx, BackendURLKey)
	if err != nil {
		return settings, err
	}

	if found {
		settings.BackendURL = backendURL
	}

	apiKey, found, err := r.value(ctx, BackendAPIKeyKey)
	if err != nil {
		return settings, err
	}

	if found {
		settings.APIKey = apiKey
	}

	return settings, nil
}

// Save writes both settings values.
func (r *settingsRepository) Save(ctx context.Context, settings models.Settings) error {
	err := r.store.Put(ctx, BackendURLKey, []byte(settings.BackendURL))
	if err != nil {
		return NewStoreError("Save", BackendURLKey, err)
	}

	return r.SaveAPIKey(ctx, settings.APIKey)
}

// SaveAPIKey writes only the API key.
func (r *settingsRepository) SaveAPIKey(ctx context.Context, apiKey string) error {
	err := r.store.Put(ctx, BackendAPIKeyKey, []byte(apiKey))
	if err != nil {
		return NewStoreError("Save", BackendAPIKeyKey, err)
	}

	return nil
}

func (r *settingsRepository) value(ctx context.Context, key string) (string, bool, error) {
	body, err := r.store.Get(ctx, key)
	if err != nil {
		if IsKeyNotFound(err) {
			return "", false, nil
		}

		return "", false, NewStoreError("Get", key, err)
	}

	return string(body), true, nil
}
