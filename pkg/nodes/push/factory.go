// Package push provides the mobile push notification node.
package push

import (
	"github.com/dukex/timely/pkg/models"
	"github.com/dukex/timely/pkg/protocol"
)

const (
	DefaultTitle = "Hello!"
	DefaultBody  = "Message from Timely"
)

// MobilePushNodeFactory describes the Push node.
type MobilePushNodeFactory struct{}

// NewMobilePushNodeFactory creates a new factory instance.
func NewMobilePushNodeFactory() protocol.NodeFactory {
	return &MobilePushNodeFactory{}
}

func (f *MobilePushNodeFactory) ID() models.NodeType {
	return models.NodeTypePush
}

func (f *MobilePushNodeFactory) Name() string {
	return "Mobile Push Notification"
}

func (f *MobilePushNodeFactory) Label() string {
	return "PUSH"
}

func (f *MobilePushNodeFactory) Shape() protocol.Shape {
	return protocol.ShapeCube
}

func (f *MobilePushNodeFactory) Description() string {
	return "Sends a notification with a title and body to every targeted device"
}

func (f *MobilePushNodeFactory) DefaultConfig() map[string]any {
	return map[string]any{
		"title": DefaultTitle,
		"body":  DefaultBody,
	}
}

// Schema returns the JSON schema for Push node configuration.
func (f *MobilePushNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Notification title",
				"default":     DefaultTitle,
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Notification body",
				"default":     DefaultBody,
			},
		},
		"required": []string{"title", "body"},
		"examples": []map[string]any{
			{"title": "Flash sale", "body": "Everything 20% off until midnight"},
		},
	}
}
