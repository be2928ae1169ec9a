// Package persistence provides the storage abstraction for scenarios, their
// node graphs and the global push settings.
package persistence

import (
	"context"

	"github.com/dukex/timely/pkg/models"
)

// Storage keys. They match the layout written by earlier releases so existing
// data keeps loading.
const (
	ScenariosKey     = "timely_scenarios"
	NodesKeyPrefix   = "nodes_"
	BackendURLKey    = "timely_backend_url"
	BackendAPIKeyKey = "timely_backend_api_key"
)

// NodesKey returns the key holding the node list of a scenario.
func NodesKey(scenarioID string) string {
	return NodesKeyPrefix + scenarioID
}

// Store is a string-keyed blob store. Get returns ErrKeyNotFound for missing
// keys and Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ScenarioRepository persists the scenario record collection. Writes replace
// the whole collection.
type ScenarioRepository interface {
	List(ctx context.Context) ([]*models.Scenario, error)
	GetByID(ctx context.Context, id string) (*models.Scenario, error)
	SaveAll(ctx context.Context, scenarios []*models.Scenario) error
}

// GraphRepository persists the ordered node list of each scenario.
type GraphRepository interface {
	Nodes(ctx context.Context, scenarioID string) ([]*models.Node, error)
	SaveNodes(ctx context.Context, scenarioID string, nodes []*models.Node) error
	Delete(ctx context.Context, scenarioID string) error
}

// SettingsRepository persists the global push settings.
type SettingsRepository interface {
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, settings models.Settings) error
	SaveAPIKey(ctx context.Context, apiKey string) error
}

// Persistence groups the repositories backed by a single store.
type Persistence struct {
	store     Store
	scenarios *scenarioRepository
	graphs    *graphRepository
	settings  *settingsRepository
}

// New wires the repositories on top of store.
func New(store Store) *Persistence {
	return &Persistence{
		store:     store,
		scenarios: &scenarioRepository{store: store},
		graphs:    &graphRepository{store: store},
		settings:  &settingsRepository{store: store},
	}
}

// ScenarioRepository returns the scenario record repository.
func (p *Persistence) ScenarioRepository() ScenarioRepository {
	return p.scenarios
}

// GraphRepository returns the node graph repository.
func (p *Persistence) GraphRepository() GraphRepository {
	return p.graphs
}

// SettingsRepository returns the global settings repository.
func (p *Persistence) SettingsRepository() SettingsRepository {
	return p.settings
}

// HealthCheck checks the underlying store.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.store.HealthCheck(ctx)
}

// Close releases the underlying store.
func (p *Persistence) Close(ctx context.Context) error {
	return p.store.Close(ctx)
}
