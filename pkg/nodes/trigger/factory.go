// Package trigger provides the manual "run now" entry node.
package trigger

import (
	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/protocol"
)

// NowNodeFactory describes the Trigger node. It carries no configuration.
type NowNodeFactory struct{}

// NewNowNodeFactory creates a new factory instance.
func NewNowNodeFactory() protocol.NodeFactory {
	return &NowNodeFactory{}
}

func (f *NowNodeFactory) ID() models.NodeType {
	return models.NodeTypeTrigger
}

func (f *NowNodeFactory) Name() string {
	return "Trigger Now"
}

func (f *NowNodeFactory) Label() string {
	return "START"
}

func (f *NowNodeFactory) Shape() protocol.Shape {
	return protocol.ShapeCube
}

func (f *NowNodeFactory) Description() string {
	return "Starts the scenario when the operator runs it"
}

func (f *NowNodeFactory) DefaultConfig() map[string]any {
	return map[string]any{}
}

// Schema returns the JSON schema for Trigger node configuration.
func (f *NowNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}
