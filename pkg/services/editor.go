package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukex/timely/pkg/canvas"
	"github.com/dukex/timely/pkg/engine"
	"github.com/dukex/timely/pkg/graph"
	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/persistence"
	"github.com/dukex/timely/pkg/registry"
)

// Editor opens scenarios for editing and running.
type Editor struct {
	persistence *persistence.Persistence
	scenarios   *Scenarios
	settings    *Settings
	registry    *registry.Registry
	engine      *engine.Engine
	logger      *slog.Logger
}

// NewEditor creates an editor. The engine should promote through scenarios.
func NewEditor(
	p *persistence.Persistence,
	scenarios *Scenarios,
	settings *Settings,
	reg *registry.Registry,
	eng *engine.Engine,
	logger *slog.Logger,
) *Editor {
	return &Editor{
		persistence: p,
		scenarios:   scenarios,
		settings:    settings,
		registry:    reg,
		engine:      eng,
		logger:      logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (e *Editor) HealthCheck(ctx context.Context) (string, bool) {
	if e.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := e.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// Open loads the record and node graph of scenarioID. A graph without a
// record still opens; Scenario then returns nil.
func (e *Editor) Open(ctx context.Context, scenarioID string, opts ...canvas.Option) (*Session, error) {
	scenario, err := e.scenarios.FetchByID(ctx, scenarioID)
	if err != nil && !errors.Is(err, ErrScenarioNotFound) {
		return nil, err
	}

	g, err := graph.Load(ctx, scenarioID, e.persistence.GraphRepository(), e.registry, e.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario nodes: %w", err)
	}

	session := &Session{
		editor:   e,
		scenario: scenario,
		graph:    g,
	}

	options := append([]canvas.Option{canvas.WithLogger(e.logger)}, opts...)
	options = append(options, canvas.WithOpenConfig(session.requestConfig))
	session.canvas = canvas.NewController(g, options...)

	return session, nil
}

// Session is one open scenario: its record, graph and canvas.
type Session struct {
	editor *Editor
	graph  *graph.Graph
	canvas *canvas.Controller

	mu       sync.Mutex
	scenario *models.Scenario
	pending  *canvas.ConfigRequest
}

// Scenario returns a copy of the record, or nil when the scenario has none.
func (s *Session) Scenario() *models.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scenario == nil {
		return nil
	}

	scenario := *s.scenario

	return &scenario
}

func (s *Session) Graph() *graph.Graph {
	return s.graph
}

func (s *Session) Canvas() *canvas.Controller {
	return s.canvas
}

// PendingConfig returns and clears the last "open config" request made by
// the canvas.
func (s *Session) PendingConfig() (canvas.ConfigRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return canvas.ConfigRequest{}, false
	}

	request := *s.pending
	s.pending = nil

	return request, true
}

func (s *Session) requestConfig(request canvas.ConfigRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = &request
}

// EditNodeConfig merges changes over the current configuration of nodeID,
// validates the result against the node schema and stores it.
func (s *Session) EditNodeConfig(ctx context.Context, nodeID string, changes map[string]any) (*models.Node, error) {
	node, ok := s.graph.Node(nodeID)
	if !ok {
		return nil, ErrNodeNotFound
	}

	config := models.CloneConfig(node.Config)
	for key, value := range changes {
		config[key] = value
	}

	err := s.editor.registry.ValidateConfig(node.Type, config)
	if err != nil {
		return nil, NewValidationError("EditNodeConfig", "INVALID_NODE_CONFIG", err.Error(), ErrInvalidNodeConfig)
	}

	s.graph.UpdateNodeConfig(ctx, nodeID, config)

	updated, _ := s.graph.Node(nodeID)

	return updated, nil
}

// Rename renames the open scenario.
func (s *Session) Rename(ctx context.Context, name string) error {
	scenario, err := s.editor.scenarios.Rename(ctx, s.graph.ScenarioID(), name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.scenario = scenario
	s.mu.Unlock()

	return nil
}

// SetAPIKey stores the push service key from the editor header.
func (s *Session) SetAPIKey(ctx context.Context, apiKey string) error {
	return s.editor.settings.SetAPIKey(ctx, apiKey)
}

// Run executes the open scenario with the saved settings.
func (s *Session) Run(ctx context.Context) (*engine.Report, error) {
	if s.editor.engine.Running() {
		return nil, engine.ErrBusy
	}

	settings, err := s.editor.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.editor.engine.Run(ctx, engine.RunRequest{
		Scenario: s.Scenario(),
		Flow:     s.graph,
		Settings: settings,
	})
	if err != nil {
		return nil, err
	}

	if report.Promoted {
		s.mu.Lock()
		s.scenario.Status = models.ScenarioStatusActive
		s.mu.Unlock()
	}

	return report, nil
}
