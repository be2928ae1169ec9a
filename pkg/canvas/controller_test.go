package canvas

import (
	"context"
	"strings"
	"testing"

	"github.com/dukex/timely/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraph struct {
	nodes   map[string]*models.Node
	moves   int
	deleted []string
}

func newFakeGraph(nodes ...*models.Node) *fakeGraph {
	g := &fakeGraph{nodes: map[string]*models.Node{}}
	for _, node := range nodes {
		g.nodes[node.ID] = node
	}

	return g
}

func (g *fakeGraph) Node(id string) (*models.Node, bool) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, false
	}

	return node.Clone(), true
}

func (g *fakeGraph) UpdateNodePosition(_ context.Context, id string, x, y float64) {
	g.moves++
	if node, ok := g.nodes[id]; ok {
		node.Position = models.Position{X: x, Y: y}
	}
}

func (g *fakeGraph) DeleteNode(_ context.Context, id string) {
	g.deleted = append(g.deleted, id)
	delete(g.nodes, id)
}

func pushNode(id string, x, y float64) *models.Node {
	return &models.Node{ID: id, Type: models.NodeTypePush, Position: models.Position{X: x, Y: y}}
}

func TestController_Panning(t *testing.T) {
	c := NewController(newFakeGraph())

	c.PointerDown(t.Context(), Target{Kind: TargetBackground}, Point{X: 500, Y: 500})
	assert.Equal(t, StatePanning, c.State())

	c.PointerMove(t.Context(), Point{X: 400, Y: 450})
	assert.Equal(t, Point{X: 150, Y: 75}, c.Scroll())

	c.PointerUp(t.Context(), Point{X: 400, Y: 450})
	assert.Equal(t, StateIdle, c.State())

	// Second pan starts from the current offset.
	c.PointerDown(t.Context(), Target{Kind: TargetBackground}, Point{X: 0, Y: 0})
	c.PointerMove(t.Context(), Point{X: 20, Y: -10})
	assert.Equal(t, Point{X: 120, Y: 90}, c.Scroll())

	c.PointerLeave(t.Context())
	assert.Equal(t, StateIdle, c.State())

	c.PointerMove(t.Context(), Point{X: 900, Y: 900})
	assert.Equal(t, Point{X: 120, Y: 90}, c.Scroll())
}

func TestController_PanningStopsAtOrigin(t *testing.T) {
	c := NewController(newFakeGraph())

	c.PointerDown(t.Context(), Target{Kind: TargetBackground}, Point{X: 0, Y: 0})
	c.PointerMove(t.Context(), Point{X: 100, Y: 100})

	assert.Equal(t, Point{}, c.Scroll())
}

func TestController_DragNode(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 100, 100))
	c := NewController(g)

	c.PointerDown(t.Context(), Target{Kind: TargetNode, NodeID: "n1"}, Point{X: 10, Y: 10})
	assert.Equal(t, StateDraggingNode, c.State())

	c.PointerMove(t.Context(), Point{X: 60, Y: 30})

	id, preview, ok := c.DragPreview()
	require.True(t, ok)
	assert.Equal(t, "n1", id)
	assert.Equal(t, models.Position{X: 150, Y: 120}, preview)
	assert.Zero(t, g.moves)

	c.PointerUp(t.Context(), Point{X: 70, Y: 40})

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, models.Position{X: 160, Y: 130}, g.nodes["n1"].Position)
	assert.Equal(t, Point{}, c.Scroll())

	_, _, ok = c.DragPreview()
	assert.False(t, ok)
}

func TestController_DragClamp(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 100, 1800))
	c := NewController(g)

	c.PointerDown(t.Context(), Target{Kind: TargetNode, NodeID: "n1"}, Point{})
	c.PointerUp(t.Context(), Point{X: -500, Y: 500})

	assert.Equal(t, models.Position{X: 50, Y: 1870}, g.nodes["n1"].Position)
}

func TestController_DragCustomBounds(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 0, 0))
	c := NewController(g, WithDragBounds(0, 10))

	c.PointerDown(t.Context(), Target{Kind: TargetNode, NodeID: "n1"}, Point{})
	c.PointerUp(t.Context(), Point{X: 5, Y: 50})

	assert.Equal(t, models.Position{X: 5, Y: 10}, g.nodes["n1"].Position)
}

func TestController_DragLeaveCommits(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 200, 200))
	c := NewController(g)

	c.PointerDown(t.Context(), Target{Kind: TargetNode, NodeID: "n1"}, Point{})
	c.PointerMove(t.Context(), Point{X: 10, Y: 10})
	c.PointerLeave(t.Context())

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, models.Position{X: 210, Y: 210}, g.nodes["n1"].Position)
}

func TestController_PointerDownIgnored(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 100, 100))
	c := NewController(g)

	c.PointerDown(t.Context(), Target{Kind: TargetControl}, Point{})
	assert.Equal(t, StateIdle, c.State())

	c.PointerDown(t.Context(), Target{Kind: TargetNode, NodeID: "missing"}, Point{})
	assert.Equal(t, StateIdle, c.State())

	c.PointerDown(t.Context(), Target{Kind: TargetBackground}, Point{})
	c.PointerDown(t.Context(), Target{Kind: TargetNode, NodeID: "n1"}, Point{})
	assert.Equal(t, StatePanning, c.State())
}

func TestController_Selection(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 0, 0), pushNode("n2", 0, 0))
	c := NewController(g)

	c.Click(t.Context(), Target{Kind: TargetNode, NodeID: "n1"})
	assert.Equal(t, "n1", c.Selected())

	c.Click(t.Context(), Target{Kind: TargetNode, NodeID: "n2"})
	assert.Equal(t, "n2", c.Selected())

	c.Click(t.Context(), Target{Kind: TargetControl})
	assert.Equal(t, "n2", c.Selected())

	c.Click(t.Context(), Target{Kind: TargetBackground})
	assert.Empty(t, c.Selected())
}

func TestController_DeleteKey(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 0, 0))
	c := NewController(g)

	assert.False(t, c.KeyDown(t.Context(), "Delete", false))

	c.Click(t.Context(), Target{Kind: TargetNode, NodeID: "n1"})

	assert.False(t, c.KeyDown(t.Context(), "Backspace", true))
	assert.False(t, c.KeyDown(t.Context(), "Enter", false))
	assert.Empty(t, g.deleted)
	assert.Equal(t, "n1", c.Selected())

	assert.True(t, c.KeyDown(t.Context(), "Backspace", false))
	assert.Equal(t, []string{"n1"}, g.deleted)
	assert.Empty(t, c.Selected())
}

func TestController_DoubleClick(t *testing.T) {
	g := newFakeGraph(&models.Node{ID: "c1", Type: models.NodeTypeCondition})

	var requests []ConfigRequest

	c := NewController(g, WithOpenConfig(func(req ConfigRequest) {
		requests = append(requests, req)
	}))

	c.DoubleClick(t.Context(), Target{Kind: TargetBackground})
	c.DoubleClick(t.Context(), Target{Kind: TargetNode, NodeID: "missing"})
	c.DoubleClick(t.Context(), Target{Kind: TargetNode, NodeID: "c1"})

	assert.Equal(t, []ConfigRequest{{NodeID: "c1", Type: models.NodeTypeCondition}}, requests)
}

func TestController_Replay(t *testing.T) {
	g := newFakeGraph(pushNode("n1", 100, 100), pushNode("n2", 300, 300))
	c := NewController(g, WithPanSensitivity(1))

	events, err := DecodeEvents(strings.NewReader(`[
		{"kind":"pointerdown","target":{"kind":"node","nodeId":"n1"},"x":0,"y":0},
		{"kind":"pointermove","x":25,"y":25},
		{"kind":"pointerup","x":50,"y":50},
		{"kind":"pointerdown","target":{"kind":"background"},"x":100,"y":100},
		{"kind":"pointermove","x":90,"y":80},
		{"kind":"pointerup","x":90,"y":80},
		{"kind":"click","target":{"kind":"node","nodeId":"n2"}},
		{"kind":"keydown","key":"Delete"}
	]`))
	require.NoError(t, err)
	require.NoError(t, c.Replay(t.Context(), events))

	assert.Equal(t, models.Position{X: 150, Y: 150}, g.nodes["n1"].Position)
	assert.Equal(t, Point{X: 10, Y: 20}, c.Scroll())
	assert.Equal(t, []string{"n2"}, g.deleted)

	err = c.Replay(t.Context(), []Event{{Kind: "wheel"}})
	assert.Error(t, err)
}
