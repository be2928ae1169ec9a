// Package canvas turns raw pointer and keyboard input on the scenario canvas
// into selection, panning and node moves.
package canvas

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dukex/timely/pkg/models"
)

const (
	DefaultPanSensitivity = 1.5
	DefaultDragMin        = 50
	DefaultDragMax        = 1870
)

// State is the interaction mode of the controller.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateDraggingNode
)

func (s State) String() string {
	switch s {
	case StatePanning:
		return "panning"
	case StateDraggingNode:
		return "dragging_node"
	default:
		return "idle"
	}
}

// TargetKind is what the pointer hit.
type TargetKind string

const (
	TargetBackground TargetKind = "background"
	TargetNode       TargetKind = "node"
	TargetControl    TargetKind = "control" // buttons, inputs and other overlay controls
)

// Target identifies the element under the pointer.
type Target struct {
	Kind   TargetKind `json:"kind"`
	NodeID string     `json:"nodeId,omitempty"`
}

// Point is a pointer location in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ConfigRequest asks the host to open the configuration editor of a node.
type ConfigRequest struct {
	NodeID string
	Type   models.NodeType
}

// NodeGraph is the part of the graph model the controller drives.
type NodeGraph interface {
	Node(id string) (*models.Node, bool)
	UpdateNodePosition(ctx context.Context, id string, x, y float64)
	DeleteNode(ctx context.Context, id string)
}

type drag struct {
	nodeID string
	start  models.Position
	origin Point
	offset Point
}

// Controller is the canvas interaction state machine. Selection and scroll
// position live only in memory.
type Controller struct {
	mu sync.Mutex

	graph  NodeGraph
	logger *slog.Logger

	panSensitivity float64
	dragMin        float64
	dragMax        float64
	openConfig     func(ConfigRequest)

	state       State
	scroll      Point
	panOrigin   Point
	panScrollAt Point
	drag        *drag
	selected    string
}

// Option configures a Controller.
type Option func(*Controller)

// WithPanSensitivity sets the scroll distance per pointer pixel while panning.
func WithPanSensitivity(sensitivity float64) Option {
	return func(c *Controller) {
		c.panSensitivity = sensitivity
	}
}

// WithDragBounds sets the per-axis range a dropped node is clamped to.
func WithDragBounds(minimum, maximum float64) Option {
	return func(c *Controller) {
		c.dragMin = minimum
		c.dragMax = maximum
	}
}

// WithOpenConfig registers the handler for double-activated nodes.
func WithOpenConfig(fn func(ConfigRequest)) Option {
	return func(c *Controller) {
		c.openConfig = fn
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates an idle controller over graph.
func NewController(graph NodeGraph, opts ...Option) *Controller {
	c := &Controller{
		graph:          graph,
		logger:         slog.Default(),
		panSensitivity: DefaultPanSensitivity,
		dragMin:        DefaultDragMin,
		dragMax:        DefaultDragMax,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PointerDown starts panning on the background or dragging on a node.
// Nodes claim the press before the background sees it. Presses while a
// gesture is in progress and presses on controls are ignored.
func (c *Controller) PointerDown(ctx context.Context, target Target, at Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return
	}

	switch target.Kind {
	case TargetNode:
		node, ok := c.graph.Node(target.NodeID)
		if !ok {
			return
		}

		c.drag = &drag{nodeID: node.ID, start: node.Position, origin: at}
		c.transition(ctx, StateDraggingNode)
	case TargetBackground:
		c.panOrigin = at
		c.panScrollAt = c.scroll
		c.transition(ctx, StatePanning)
	case TargetControl:
	}
}

// PointerMove updates the scroll offset while panning or the drag offset
// while dragging.
func (c *Controller) PointerMove(_ context.Context, at Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StatePanning:
		c.scroll = Point{
			X: max(0, c.panScrollAt.X-(at.X-c.panOrigin.X)*c.panSensitivity),
			Y: max(0, c.panScrollAt.Y-(at.Y-c.panOrigin.Y)*c.panSensitivity),
		}
	case StateDraggingNode:
		c.drag.offset = Point{X: at.X - c.drag.origin.X, Y: at.Y - c.drag.origin.Y}
	case StateIdle:
	}
}

// PointerUp ends the current gesture. A drag is committed to the graph at
// its start position plus the pointer offset, clamped to the drag bounds.
func (c *Controller) PointerUp(ctx context.Context, at Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StatePanning:
		c.transition(ctx, StateIdle)
	case StateDraggingNode:
		c.drag.offset = Point{X: at.X - c.drag.origin.X, Y: at.Y - c.drag.origin.Y}
		c.commitDrag(ctx)
	case StateIdle:
	}
}

// PointerLeave ends panning. A drag in progress is committed at the last
// known pointer offset.
func (c *Controller) PointerLeave(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StatePanning:
		c.transition(ctx, StateIdle)
	case StateDraggingNode:
		c.commitDrag(ctx)
	case StateIdle:
	}
}

// Click selects the clicked node or clears the selection on the background.
func (c *Controller) Click(_ context.Context, target Target) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch target.Kind {
	case TargetNode:
		if _, ok := c.graph.Node(target.NodeID); ok {
			c.selected = target.NodeID
		}
	case TargetBackground:
		c.selected = ""
	case TargetControl:
	}
}

// DoubleClick on a node asks the host to open its configuration editor.
func (c *Controller) DoubleClick(ctx context.Context, target Target) {
	if target.Kind != TargetNode {
		return
	}

	node, ok := c.graph.Node(target.NodeID)
	if !ok {
		return
	}

	c.mu.Lock()
	openConfig := c.openConfig
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "Open node configuration", "node_id", node.ID, "type", node.Type)

	if openConfig != nil {
		openConfig(ConfigRequest{NodeID: node.ID, Type: node.Type})
	}
}

// KeyDown deletes the selected node on Delete or Backspace unless a text
// entry control has focus. It reports whether a node was deleted.
func (c *Controller) KeyDown(ctx context.Context, key string, textInputFocused bool) bool {
	if key != "Delete" && key != "Backspace" {
		return false
	}

	if textInputFocused {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == "" {
		return false
	}

	id := c.selected
	c.selected = ""
	c.graph.DeleteNode(ctx, id)

	c.logger.DebugContext(ctx, "Deleted selected node", "node_id", id)

	return true
}

// State returns the current interaction mode.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Scroll returns the current scroll offset of the canvas viewport.
func (c *Controller) Scroll() Point {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.scroll
}

// Selected returns the selected node id, or "" when nothing is selected.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selected
}

// DragPreview returns where the dragged node is currently drawn.
func (c *Controller) DragPreview() (string, models.Position, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag == nil {
		return "", models.Position{}, false
	}

	return c.drag.nodeID, models.Position{
		X: c.drag.start.X + c.drag.offset.X,
		Y: c.drag.start.Y + c.drag.offset.Y,
	}, true
}

func (c *Controller) commitDrag(ctx context.Context) {
	d := c.drag
	x := clamp(d.start.X+d.offset.X, c.dragMin, c.dragMax)
	y := clamp(d.start.Y+d.offset.Y, c.dragMin, c.dragMax)

	c.graph.UpdateNodePosition(ctx, d.nodeID, x, y)

	c.drag = nil
	c.transition(ctx, StateIdle)
}

func (c *Controller) transition(ctx context.Context, next State) {
	c.logger.DebugContext(ctx, "Canvas state changed", "from", c.state.String(), "to", next.String())
	c.state = next
}

func clamp(value, minimum, maximum float64) float64 {
	return min(max(value, minimum), maximum)
}
