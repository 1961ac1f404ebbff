package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spantree/pkg/graph"
)

const eps = 1e-9

func makeNodes(n int) []graph.Node {
	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i] = graph.Node{ID: fmt.Sprintf("node-%d", i), Name: fmt.Sprintf("N%d", i)}
	}
	return nodes
}

func TestParseType(t *testing.T) {
	for _, typ := range Types {
		got, err := ParseType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	got, err := ParseType("Force")
	require.NoError(t, err)
	assert.Equal(t, ForceDirected, got)

	_, err = ParseType("spiral")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestApplyUnknown(t *testing.T) {
	_, err := Apply(makeNodes(2), nil, "spiral", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestManualIsIdentity(t *testing.T) {
	nodes := []graph.Node{{ID: "a", X: 3, Y: 4}, {ID: "b", X: 5, Y: 6}}
	got, err := Apply(nodes, nil, Manual, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, nodes, got)

	got[0].X = 99
	assert.Equal(t, 3.0, nodes[0].X, "result must be a copy")
}

func TestCircular(t *testing.T) {
	opts := Options{Width: 400, Height: 400, Padding: 50}
	got := CircularLayout(makeNodes(4), opts)

	want := [][2]float64{{350, 200}, {200, 350}, {50, 200}, {200, 50}}
	for i, w := range want {
		assert.InDelta(t, w[0], got[i].X, eps, "node %d x", i)
		assert.InDelta(t, w[1], got[i].Y, eps, "node %d y", i)
		assert.Equal(t, fmt.Sprintf("node-%d", i), got[i].ID)
	}
}

func TestGrid(t *testing.T) {
	opts := Options{Width: 400, Height: 300, Padding: 0}
	got := GridLayout(makeNodes(5), opts)

	cell := 400.0 / 3
	assert.InDelta(t, cell/2, got[0].X, eps)
	assert.InDelta(t, 75, got[0].Y, eps)
	assert.InDelta(t, 200, got[4].X, eps)
	assert.InDelta(t, 225, got[4].Y, eps)
	assert.InDelta(t, cell*2+cell/2, got[2].X, eps)

	assert.Empty(t, GridLayout(nil, opts))
}

func TestHierarchical(t *testing.T) {
	nodes := makeNodes(5)
	edges := []graph.Edge{
		{ID: "e0", Source: "node-0", Target: "node-1"},
		{ID: "e1", Source: "node-0", Target: "node-2"},
		{ID: "e2", Source: "node-1", Target: "node-3"},
	}
	opts := Options{Width: 500, Height: 300, Padding: 50}
	got := HierarchicalLayout(nodes, edges, opts)

	// Level 0: node-0 and the isolated node-4. Level 1: node-1, node-2. Level 2: node-3.
	assert.InDelta(t, 50, got[0].X, eps)
	assert.InDelta(t, 450, got[4].X, eps)
	assert.InDelta(t, 50, got[0].Y, eps)
	assert.InDelta(t, 50, got[4].Y, eps)

	assert.InDelta(t, 50, got[1].X, eps)
	assert.InDelta(t, 450, got[2].X, eps)
	assert.InDelta(t, 150, got[1].Y, eps)

	assert.InDelta(t, 250, got[3].X, eps, "single node level is centered")
	assert.InDelta(t, 250, got[3].Y, eps)
}

func TestHierarchicalFallsBackToCircular(t *testing.T) {
	nodes := makeNodes(3)
	edges := []graph.Edge{
		{ID: "e0", Source: "node-0", Target: "node-1"},
		{ID: "e1", Source: "node-1", Target: "node-2"},
		{ID: "e2", Source: "node-2", Target: "node-0"},
	}
	opts := DefaultOptions()
	assert.Equal(t, CircularLayout(nodes, opts), HierarchicalLayout(nodes, edges, opts))
}

func TestHierarchicalSingleLevel(t *testing.T) {
	got := HierarchicalLayout(makeNodes(1), nil, Options{Width: 200, Height: 100, Padding: 10})
	assert.InDelta(t, 100, got[0].X, eps)
	assert.InDelta(t, 10, got[0].Y, eps)
}

func TestDeterministicLayouts(t *testing.T) {
	nodes := makeNodes(7)
	edges := []graph.Edge{
		{ID: "e0", Source: "node-0", Target: "node-3", Weight: 1},
		{ID: "e1", Source: "node-3", Target: "node-5", Weight: 1},
	}
	for _, typ := range []Type{Circular, Grid, Hierarchical} {
		a, err := Apply(nodes, edges, typ, DefaultOptions())
		require.NoError(t, err)
		b, err := Apply(nodes, edges, typ, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s", typ)
	}
}

func placedTriangle() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 300, Y: 120},
		{ID: "c", X: 200, Y: 300},
	}
	edges := []graph.Edge{
		{ID: "ab", Source: "a", Target: "b", Weight: 1},
		{ID: "bc", Source: "b", Target: "c", Weight: 1},
	}
	return nodes, edges
}

func TestForceDirectedDeterministic(t *testing.T) {
	nodes, edges := placedTriangle()
	opts := Options{Width: 400, Height: 400, Padding: 20, Iterations: 30}

	a := ForceDirectedLayout(nodes, edges, opts)
	opts.Seed = 99 // irrelevant once every node is placed
	b := ForceDirectedLayout(nodes, edges, opts)
	assert.Equal(t, a, b)
	assert.Equal(t, 100.0, nodes[0].X, "input must not be mutated")
}

func TestForceDirectedBounds(t *testing.T) {
	nodes := makeNodes(12)
	for i := range nodes {
		nodes[i].X, nodes[i].Y = math.NaN(), math.NaN()
	}
	nodes[0].X, nodes[0].Y = 0, 0 // outside the padded area

	opts := Options{Width: 300, Height: 200, Padding: 25, Seed: 7}
	got := ForceDirectedLayout(nodes, nil, opts)
	for _, n := range got {
		require.True(t, n.HasPosition(), n.ID)
		assert.GreaterOrEqual(t, n.X, 25.0)
		assert.LessOrEqual(t, n.X, 275.0)
		assert.GreaterOrEqual(t, n.Y, 25.0)
		assert.LessOrEqual(t, n.Y, 175.0)
	}

	again := ForceDirectedLayout(nodes, nil, opts)
	assert.Equal(t, got, again, "same seed, same layout")
}

func TestForceDirectedSingleStep(t *testing.T) {
	// Two nodes, one edge, one iteration: check the force arithmetic directly.
	nodes := []graph.Node{{ID: "a", X: 100, Y: 100}, {ID: "b", X: 200, Y: 100}}
	edges := []graph.Edge{{ID: "ab", Source: "a", Target: "b", Weight: 1}}
	opts := Options{Width: 400, Height: 200, Padding: 0, Iterations: 1}

	k := math.Sqrt(400*200/2.0) * 0.5 // 100
	repel := k * k / (100 * 100)       // pushes a left, b right
	pull := (100 - k) * 0.1            // zero at rest length
	va := (-repel + pull) * 0.85

	got := ForceDirectedLayout(nodes, edges, opts)
	assert.InDelta(t, 100+va, got[0].X, eps)
	assert.InDelta(t, 200-va, got[1].X, eps)
	assert.InDelta(t, 100, got[0].Y, eps)
}

func TestApplyForceUsesApplyIterations(t *testing.T) {
	nodes, edges := placedTriangle()
	opts := Options{Width: 400, Height: 400, Padding: 20}

	viaApply, err := Apply(nodes, edges, ForceDirected, opts)
	require.NoError(t, err)

	opts.Iterations = ApplyIterations
	assert.Equal(t, ForceDirectedLayout(nodes, edges, opts), viaApply)
}

func TestEmptyInputs(t *testing.T) {
	for _, typ := range Types {
		got, err := Apply(nil, nil, typ, DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, got, "%s", typ)
	}
}
