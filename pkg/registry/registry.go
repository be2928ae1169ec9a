// Package registry holds the node factories and validates node configuration
// against their schemas.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrInvalidConfig   = errors.New("invalid node configuration")
)

type Registry struct {
	logger    *slog.Logger
	factories map[models.NodeType]protocol.NodeFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		factories: make(map[models.NodeType]protocol.NodeFactory),
	}
}

func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.factories[factory.ID()] = factory
	r.logger.Debug("Registered node type", "type", factory.ID())
}

// Factory returns the factory for nodeType.
func (r *Registry) Factory(nodeType models.NodeType) (protocol.NodeFactory, error) {
	factory, ok := r.factories[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, nodeType)
	}

	return factory, nil
}

// Factories returns the registered factories in palette order.
func (r *Registry) Factories() []protocol.NodeFactory {
	factories := make([]protocol.NodeFactory, 0, len(r.factories))
	for _, nodeType := range models.NodeTypes {
		if factory, ok := r.factories[nodeType]; ok {
			factories = append(factories, factory)
		}
	}

	return factories
}

// ValidateConfig checks config against the schema of nodeType.
func (r *Registry) ValidateConfig(nodeType models.NodeType, config map[string]any) error {
	factory, err := r.Factory(nodeType)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewGoLoader(factory.Schema())
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}
