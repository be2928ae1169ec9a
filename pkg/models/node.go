// Package models defines the core domain models for push-notification scenarios.
package models

// NodeType identifies one of the fixed node variants a scenario graph can hold.
type NodeType string

// Node types. The values are the persisted discriminators and must not change.
const (
	NodeTypeTrigger   NodeType = "now"
	NodeTypePush      NodeType = "mobile_push"
	NodeTypeCondition NodeType = "condition"
)

// NodeTypes lists every supported node type in palette order.
var NodeTypes = []NodeType{NodeTypeTrigger, NodeTypePush, NodeTypeCondition}

// Valid reports whether t is one of the closed set of node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeTrigger, NodeTypePush, NodeTypeCondition:
		return true
	default:
		return false
	}
}

// Position is a node's location in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DefaultPosition is assigned to stored nodes that predate positions.
var DefaultPosition = Position{X: 100, Y: 100}

// Node is a single step of a scenario graph.
type Node struct {
	ID       string         `json:"id"       validate:"required"`
	Type     NodeType       `json:"type"     validate:"required,oneof=now mobile_push condition"`
	Title    string         `json:"title"`
	Config   map[string]any `json:"config"`
	Position Position       `json:"position"`
}

// Clone returns a deep-enough copy of the node: the config map is copied so
// callers can mutate it without affecting the graph.
func (n *Node) Clone() *Node {
	clone := *n
	clone.Config = CloneConfig(n.Config)

	return &clone
}

// CloneConfig copies a node configuration map one level deep.
func CloneConfig(config map[string]any) map[string]any {
	out := make(map[string]any, len(config))
	for k, v := range config {
		out[k] = v
	}

	return out
}

// PushConfig is the typed view of a Push node configuration.
type PushConfig struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ConditionConfig is the typed view of a Condition node configuration.
type ConditionConfig struct {
	Tokens string `json:"tokens"`
}

// PushConfig reads the notification title and body from the node configuration.
// Missing or non-string values read as empty strings.
func (n *Node) PushConfig() PushConfig {
	return PushConfig{
		Title: stringField(n.Config, "title"),
		Body:  stringField(n.Config, "body"),
	}
}

// ConditionConfig reads the raw token list from the node configuration.
func (n *Node) ConditionConfig() ConditionConfig {
	return ConditionConfig{Tokens: stringField(n.Config, "tokens")}
}

func stringField(config map[string]any, key string) string {
	if config == nil {
		return ""
	}

	value, ok := config[key].(string)
	if !ok {
		return ""
	}

	return value
}
