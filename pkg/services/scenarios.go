package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/persistence"
)

// ErrScenarioNotFound is returned when a scenario record does not exist.
var ErrScenarioNotFound = persistence.ErrScenarioNotFound

// scenarioNameLayout renders the default name, e.g. "Scenario 3/14/2025 09:30".
const scenarioNameLayout = "1/2/2006 15:04"

// Confirmer asks the operator to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// DeletePrompt is shown before a scenario is deleted.
const DeletePrompt = "Are you sure you want to delete this scenario?"

// Stats summarises the scenario collection.
type Stats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Scenarios manages scenario records. Every write rewrites the whole
// collection.
type Scenarios struct {
	repo   persistence.ScenarioRepository
	graphs persistence.GraphRepository
	logger *slog.Logger
	now    func() time.Time

	// serializes read-modify-write cycles on the collection
	mu sync.Mutex
}

// NewScenarios creates a scenario service over p.
func NewScenarios(p *persistence.Persistence, logger *slog.Logger) *Scenarios {
	return &Scenarios{
		repo:   p.ScenarioRepository(),
		graphs: p.GraphRepository(),
		logger: logger,
		now:    time.Now,
	}
}

// List returns the scenarios newest first.
func (s *Scenarios) List(ctx context.Context) ([]*models.Scenario, error) {
	scenarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	return scenarios, nil
}

// FetchByID returns the scenario with id or ErrScenarioNotFound.
func (s *Scenarios) FetchByID(ctx context.Context, id string) (*models.Scenario, error) {
	scenario, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if persistence.IsScenarioNotFound(err) {
			return nil, ErrScenarioNotFound
		}

		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	return scenario, nil
}

// Create stores a new draft scenario at the head of the collection.
func (s *Scenarios) Create(ctx context.Context) (*models.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	now := s.now()
	scenario := &models.Scenario{
		ID:        models.NewID(),
		Name:      "Scenario " + now.Format(scenarioNameLayout),
		CreatedAt: now.UTC(),
		Status:    models.ScenarioStatusDraft,
	}

	err = s.repo.SaveAll(ctx, append([]*models.Scenario{scenario}, scenarios...))
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario: %w", err)
	}

	s.logger.InfoContext(ctx, "Scenario created", "scenario_id", scenario.ID)

	return scenario, nil
}

// Rename changes the name of scenario id.
func (s *Scenarios) Rename(ctx context.Context, id, name string) (*models.Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("Rename", "EMPTY_NAME", "scenario name cannot be empty", ErrScenarioNameEmpty)
	}

	return s.update(ctx, id, func(scenario *models.Scenario) bool {
		if scenario.Name == name {
			return false
		}

		scenario.Name = name

		return true
	})
}

// PromoteToActive marks scenario id active. Active scenarios stay active.
func (s *Scenarios) PromoteToActive(ctx context.Context, id string) error {
	_, err := s.update(ctx, id, func(scenario *models.Scenario) bool {
		if !scenario.IsDraft() {
			return false
		}

		scenario.Status = models.ScenarioStatusActive

		return true
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Scenario promoted", "scenario_id", id)

	return nil
}

// Delete removes scenario id and its node graph once confirmer agrees.
// Deleting an unknown id is not an error.
func (s *Scenarios) Delete(ctx context.Context, id string, confirmer Confirmer) error {
	if confirmer == nil || !confirmer.Confirm(ctx, DeletePrompt) {
		return ErrDeleteNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scenarios, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scenarios: %w", err)
	}

	kept := make([]*models.Scenario, 0, len(scenarios))

	for _, scenario := range scenarios {
		if scenario.ID != id {
			kept = append(kept, scenario)
		}
	}

	if len(kept) != len(scenarios) {
		err = s.repo.SaveAll(ctx, kept)
		if err != nil {
			return fmt.Errorf("failed to delete scenario: %w", err)
		}
	}

	err = s.graphs.Delete(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to delete scenario nodes", "scenario_id", id, "error", err)
	}

	s.logger.InfoContext(ctx, "Scenario deleted", "scenario_id", id)

	return nil
}

// Stats counts all and active scenarios.
func (s *Scenarios) Stats(ctx context.Context) (Stats, error) {
	scenarios, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(scenarios)}

	for _, scenario := range scenarios {
		if scenario.Status == models.ScenarioStatusActive {
			stats.Active++
		}
	}

	return stats, nil
}

// update applies fn to scenario id and rewrites the collection when fn
// reports a change.
func (s *Scenarios) update(ctx context.Context, id string, fn func(*models.Scenario) bool) (*models.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	for _, scenario := range scenarios {
		if scenario.ID != id {
			continue
		}

		if !fn(scenario) {
			return scenario, nil
		}

		err = s.repo.SaveAll(ctx, scenarios)
		if err != nil {
			return nil, fmt.Errorf("failed to save scenarios: %w", err)
		}

		return scenario, nil
	}

	return nil, ErrScenarioNotFound
}
