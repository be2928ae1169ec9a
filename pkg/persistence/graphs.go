package persistence

import (
	"context"
	"encoding/json"

	"github.com/dukex/timely/pkg/models"
)

// nodeRecord is the stored node shape. Position is optional because records
// written before nodes carried positions omit it.
type nodeRecord struct {
	ID       string           `json:"id"`
	Type     models.NodeType  `json:"type"`
	Title    string           `json:"title"`
	Config   map[string]any   `json:"config"`
	Position *models.Position `json:"position,omitempty"`
}

type graphRepository struct {
	store Store
}

// Nodes loads the node list of a scenario in insertion order. Nodes stored
// without a position get models.DefaultPosition; the default is written back
// by the next SaveNodes.
func (r *graphRepository) Nodes(ctx context.Context, scenarioID string) ([]*models.Node, error) {
	key := NodesKey(scenarioID)

	body, err := r.store.Get(ctx, key)
	if err != nil {
		if IsKeyNotFound(err) {
			return []*models.Node{}, nil
		}

		return nil, NewStoreError("Nodes", key, err)
	}

	var records []nodeRecord

	err = json.Unmarshal(body, &records)
	if err != nil {
		return nil, NewStoreError("Decode", key, err)
	}

	nodes := make([]*models.Node, 0, len(records))
	for _, record := range records {
		position := models.DefaultPosition
		if record.Position != nil {
			position = *record.Position
		}

		config := record.Config
		if config == nil {
			config = map[string]any{}
		}

		nodes = append(nodes, &models.Node{
			ID:       record.ID,
			Type:     record.Type,
			Title:    record.Title,
			Config:   config,
			Position: position,
		})
	}

	return nodes, nil
}

// SaveNodes replaces the stored node list of a scenario.
func (r *graphRepository) SaveNodes(ctx context.Context, scenarioID string, nodes []*models.Node) error {
	key := NodesKey(scenarioID)

	if nodes == nil {
		nodes = []*models.Node{}
	}

	body, err := json.Marshal(nodes)
	if err != nil {
		return NewStoreError("Encode", key, err)
	}

	err = r.store.Put(ctx, key, body)
	if err != nil {
		return NewStoreError("SaveNodes", key, err)
	}

	return nil
}

// Delete removes the node list of a scenario.
func (r *graphRepository) Delete(ctx context.Context, scenarioID string) error {
	key := NodesKey(scenarioID)

	err := r.store.Delete(ctx, key)
	if err != nil {
		return NewStoreError("Delete", key, err)
	}

	return nil
}
