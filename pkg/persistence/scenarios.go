package persistence

import (
	"context"
	"encoding/json"

	"github.com/dukex/timely/pkg/models"
)

type scenarioRepository struct {
	store Store
}

// List returns the stored scenarios in their persisted order (newest first).
// A store without scenarios yields an empty list.
func (r *scenarioRepository) List(ctx context.Context) ([]*models.Scenario, error) {
	body, err := r.store.Get(ctx, ScenariosKey)
	if err != nil {
		if IsKeyNotFound(err) {
			return []*models.Scenario{}, nil
		}

		return nil, NewStoreError("List", ScenariosKey, err)
	}

	scenarios := make([]*models.Scenario, 0)

	err = json.Unmarshal(body, &scenarios)
	if err != nil {
		return nil, NewStoreError("Decode", ScenariosKey, err)
	}

	return scenarios, nil
}

// GetByID returns the scenario with the given ID or ErrScenarioNotFound.
func (r *scenarioRepository) GetByID(ctx context.Context, id string) (*models.Scenario, error) {
	scenarios, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, scenario := range scenarios {
		if scenario.ID == id {
			return scenario, nil
		}
	}

	return nil, NewStoreError("GetByID", id, ErrScenarioNotFound)
}

// SaveAll replaces the stored collection.
func (r *scenarioRepository) SaveAll(ctx context.Context, scenarios []*models.Scenario) error {
	if scenarios == nil {
		scenarios = []*models.Scenario{}
	}

	body, err := json.Marshal(scenarios)
	if err != nil {
		return NewStoreError("Encode", ScenariosKey, err)
	}

	err = r.store.Put(ctx, ScenariosKey, body)
	if err != nil {
		return NewStoreError("SaveAll", ScenariosKey, err)
	}

	return nil
}
