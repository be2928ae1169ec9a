// Package protocol defines the contract every node type implements.
package protocol

import "github.com/dukex/timely/pkg/models"

// Shape is the canvas glyph a node type is drawn with.
type Shape string

const (
	ShapeCube    Shape = "cube"
	ShapeRhombus Shape = "rhombus"
)

// NodeFactory describes a node type and builds its default configuration.
type NodeFactory interface {
	// ID returns the persisted type discriminator
	ID() models.NodeType

	// Name returns the title given to new nodes of this type
	Name() string

	// Label returns the short badge shown on the canvas
	Label() string

	// Shape returns the canvas glyph
	Shape() Shape

	// Description returns a description of what this node does
	Description() string

	// DefaultConfig returns a fresh configuration for a new node
	DefaultConfig() map[string]any

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any
}
