// Package condition provides the device-targeting node.
package condition

import (
	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/protocol"
)

// TokensNodeFactory describes the Condition node, which holds the device
// tokens a run targets.
type TokensNodeFactory struct{}

// NewTokensNodeFactory creates a new factory instance.
func NewTokensNodeFactory() protocol.NodeFactory {
	return &TokensNodeFactory{}
}

func (f *TokensNodeFactory) ID() models.NodeType {
	return models.NodeTypeCondition
}

func (f *TokensNodeFactory) Name() string {
	return "Condition (FCM Tokens)"
}

func (f *TokensNodeFactory) Label() string {
	return "TARGET"
}

func (f *TokensNodeFactory) Shape() protocol.Shape {
	return protocol.ShapeRhombus
}

func (f *TokensNodeFactory) Description() string {
	return "Targets the devices whose FCM tokens are listed, separated by commas or newlines"
}

func (f *TokensNodeFactory) DefaultConfig() map[string]any {
	return map[string]any{"tokens": ""}
}

// Schema returns the JSON schema for Condition node configuration.
func (f *TokensNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tokens": map[string]any{
				"type":        "string",
				"description": "Device tokens separated by commas or newlines",
				"examples":    []string{"token-a, token-b", "token-a\ntoken-b"},
			},
		},
		"required": []string{"tokens"},
	}
}
