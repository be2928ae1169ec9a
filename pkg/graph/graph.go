// Package graph holds the in-memory node graph of one scenario and mirrors
// every mutation to the graph repository.
package graph

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/persistence"
	"github.com/dukex/timely/pkg/registry"
)

// New nodes are staggered diagonally so they do not land on top of each other.
const (
	staggerBase  = 100
	staggerStep  = 30
	staggerRange = 300
)

// Graph is the ordered node list of a scenario. Insertion order is display
// order. Nodes are not linked by edges; the run semantics come from node types.
type Graph struct {
	mu         sync.RWMutex
	scenarioID string
	nodes      []*models.Node

	repo     persistence.GraphRepository
	registry *registry.Registry
	logger   *slog.Logger
}

// Load reads the stored nodes of scenarioID. A scenario without stored nodes
// yields an empty graph.
func Load(ctx context.Context, scenarioID string, repo persistence.GraphRepository, reg *registry.Registry, logger *slog.Logger) (*Graph, error) {
	nodes, err := repo.Nodes(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	return &Graph{
		scenarioID: scenarioID,
		nodes:      nodes,
		repo:       repo,
		registry:   reg,
		logger:     logger.With("scenario_id", scenarioID),
	}, nil
}

// ScenarioID returns the scenario the graph belongs to.
func (g *Graph) ScenarioID() string {
	return g.scenarioID
}

// AddNode appends a node of nodeType with the type's default title and
// configuration, placed at the next staggered position.
func (g *Graph) AddNode(ctx context.Context, nodeType models.NodeType) (*models.Node, error) {
	factory, err := g.registry.Factory(nodeType)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	offset := float64(staggerBase + (len(g.nodes)*staggerStep)%staggerRange)
	node := &models.Node{
		ID:       models.NewID(),
		Type:     nodeType,
		Title:    factory.Name(),
		Config:   factory.DefaultConfig(),
		Position: models.Position{X: offset, Y: offset},
	}
	g.nodes = append(g.nodes, node)

	g.logger.DebugContext(ctx, "Node added", "node_id", node.ID, "type", nodeType)
	g.persistLocked(ctx)

	return node.Clone(), nil
}

// DeleteNode removes the node with id. Unknown ids are ignored.
func (g *Graph) DeleteNode(ctx context.Context, id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	index := g.indexLocked(id)
	if index < 0 {
		return
	}

	g.nodes = slices.Delete(g.nodes, index, index+1)

	g.logger.DebugContext(ctx, "Node deleted", "node_id", id)
	g.persistLocked(ctx)
}

// UpdateNodeConfig replaces the configuration of node id wholesale. Keys
// absent from config are dropped. Unknown ids are ignored.
func (g *Graph) UpdateNodeConfig(ctx context.Context, id string, config map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	index := g.indexLocked(id)
	if index < 0 {
		return
	}

	g.nodes[index].Config = models.CloneConfig(config)
	g.persistLocked(ctx)
}

// UpdateNodePosition sets the absolute position of node id. Coordinates are
// stored as given. Unknown ids are ignored.
func (g *Graph) UpdateNodePosition(ctx context.Context, id string, x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	index := g.indexLocked(id)
	if index < 0 {
		return
	}

	g.nodes[index].Position = models.Position{X: x, Y: y}
	g.persistLocked(ctx)
}

// Nodes returns a copy of the node list in display order.
func (g *Graph) Nodes() []*models.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.snapshotLocked()
}

// Node returns a copy of node id.
func (g *Graph) Node(id string) (*models.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	index := g.indexLocked(id)
	if index < 0 {
		return nil, false
	}

	return g.nodes[index].Clone(), true
}

// FindByType returns a copy of the first node of nodeType in display order.
func (g *Graph) FindByType(nodeType models.NodeType) (*models.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, node := range g.nodes {
		if node.Type == nodeType {
			return node.Clone(), true
		}
	}

	return nil, false
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

func (g *Graph) indexLocked(id string) int {
	return slices.IndexFunc(g.nodes, func(node *models.Node) bool {
		return node.ID == id
	})
}

func (g *Graph) snapshotLocked() []*models.Node {
	snapshot := make([]*models.Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		snapshot = append(snapshot, node.Clone())
	}

	return snapshot
}

// persistLocked writes the full node list while the write lock is held, so
// stored snapshots follow mutation order. Failures are logged and the
// in-memory graph stays authoritative.
func (g *Graph) persistLocked(ctx context.Context) {
	err := g.repo.SaveNodes(ctx, g.scenarioID, g.snapshotLocked())
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to persist scenario nodes", "error", err, "nodes", len(g.nodes))
	}
}
