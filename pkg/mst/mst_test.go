package mst

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spantree/pkg/dsu"
	"github.com/matzehuels/spantree/pkg/graph"
)

// simpleNetwork is A,B,C,D with A-B:10, A-C:15, B-D:12, C-D:8, A-D:25, B-C:20.
func simpleNetwork() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "A", Name: "A"}, {ID: "B", Name: "B"}, {ID: "C", Name: "C"}, {ID: "D", Name: "D"},
	}
	edges := []graph.Edge{
		{ID: "AB", Source: "A", Target: "B", Weight: 10},
		{ID: "AC", Source: "A", Target: "C", Weight: 15},
		{ID: "BD", Source: "B", Target: "D", Weight: 12},
		{ID: "CD", Source: "C", Target: "D", Weight: 8},
		{ID: "AD", Source: "A", Target: "D", Weight: 25},
		{ID: "BC", Source: "B", Target: "C", Weight: 20},
	}
	return nodes, edges
}

func ids(edges []graph.Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.ID
	}
	return out
}

func fixClock(t *testing.T) time.Time {
	t.Helper()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })
	return fixed
}

// =============================================================================
// Kruskal
// =============================================================================

func TestInitKruskal(t *testing.T) {
	start := fixClock(t)
	nodes, edges := simpleNetwork()
	edges[0].Status = graph.StatusAccepted

	s := InitKruskal(nodes, edges)

	assert.Equal(t, []string{"CD", "AB", "BD", "AC", "BC", "AD"}, ids(s.SortedEdges))
	for _, e := range s.SortedEdges {
		assert.Equal(t, graph.StatusPending, e.Status)
	}
	assert.Equal(t, 6, s.TotalSteps)
	assert.Zero(t, s.Step)
	assert.Empty(t, s.MSTEdges)
	assert.Nil(t, s.CurrentEdge)
	assert.False(t, s.Completed)
	assert.Equal(t, kruskalReady, s.Explanation)
	assert.Equal(t, start, s.StartTime)
	assert.Equal(t, graph.StatusAccepted, edges[0].Status, "input must not be mutated")
}

func TestKruskalSimpleNetwork(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitKruskal(nodes, edges)

	s = StepKruskal(s, nodes)
	require.Equal(t, "CD", s.CurrentEdge.ID)
	assert.Equal(t, graph.StatusAccepted, s.CurrentEdge.Status)
	assert.Equal(t, 8, s.TotalCost)
	assert.Equal(t, "Edge C-D (weight: 8) connects different components. Added to MST.", s.Explanation)

	s = StepKruskal(s, nodes)
	assert.Equal(t, "AB", s.CurrentEdge.ID)
	assert.Equal(t, 18, s.TotalCost)
	assert.False(t, s.Completed)

	s = StepKruskal(s, nodes)
	assert.Equal(t, "BD", s.CurrentEdge.ID)
	assert.Equal(t, 30, s.TotalCost)
	assert.True(t, s.Completed, "three edges span four nodes")
	assert.False(t, s.Disconnected)
	assert.Equal(t, 3, s.Step)
	assert.Equal(t, []string{"CD", "AB", "BD"}, ids(s.MSTEdges))
	assert.Contains(t, s.Explanation, "Algorithm completed! MST has 3 edges with total cost 30.")

	for i, e := range s.SortedEdges {
		if i < s.Step {
			assert.True(t, e.Status.Terminal(), "edge %s at %d", e.ID, i)
		} else {
			assert.Equal(t, graph.StatusPending, e.Status, "edge %s at %d", e.ID, i)
		}
	}
}

func TestKruskalRejectsCycle(t *testing.T) {
	nodes, edges := simpleNetwork()
	// Without B-D, A-C (15) is examined while {A,B} and {C,D} are apart,
	// and B-C (20) then closes a cycle.
	edges = append(edges[:2], edges[3:]...)
	s := InitKruskal(nodes, edges)
	for !s.Completed {
		s = StepKruskal(s, nodes)
	}
	assert.Equal(t, []string{"CD", "AB", "AC"}, ids(s.MSTEdges))
	assert.Equal(t, 33, s.TotalCost)

	nodes = []graph.Node{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}, {ID: "d", Name: "D"}}
	edges = []graph.Edge{
		{ID: "ab", Source: "a", Target: "b", Weight: 1},
		{ID: "bc", Source: "b", Target: "c", Weight: 2},
		{ID: "ac", Source: "a", Target: "c", Weight: 3},
		{ID: "cd", Source: "c", Target: "d", Weight: 4},
	}
	s = InitKruskal(nodes, edges)
	s = StepKruskal(StepKruskal(StepKruskal(s, nodes), nodes), nodes)
	require.Equal(t, "ac", s.CurrentEdge.ID)
	assert.Equal(t, graph.StatusRejected, s.CurrentEdge.Status)
	assert.Equal(t, graph.StatusRejected, s.SortedEdges[2].Status)
	assert.Equal(t, "Edge A-C (weight: 3) creates a cycle. Rejected.", s.Explanation)
	assert.Equal(t, 3, s.TotalCost)
	assert.False(t, s.Completed)

	s = StepKruskal(s, nodes)
	assert.Equal(t, 7, s.TotalCost)
	assert.True(t, s.Completed)
	assert.Equal(t, []string{"ab", "bc", "cd"}, ids(s.MSTEdges))
}

func TestKruskalStableTies(t *testing.T) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []graph.Edge{
		{ID: "e2", Source: "b", Target: "c", Weight: 5},
		{ID: "e0", Source: "a", Target: "b", Weight: 5},
		{ID: "e1", Source: "a", Target: "c", Weight: 5},
	}
	s := InitKruskal(nodes, edges)
	assert.Equal(t, []string{"e2", "e0", "e1"}, ids(s.SortedEdges))

	for !s.Completed {
		s = StepKruskal(s, nodes)
	}
	assert.Equal(t, []string{"e2", "e0"}, ids(s.MSTEdges))
}

func TestKruskalRebuildsFromSortedEdges(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitKruskal(nodes, edges)
	s = StepKruskal(StepKruskal(s, nodes), nodes)

	// Corrupt the derived fields; the replay recomputes them.
	s.MSTEdges = nil
	s.TotalCost = 999

	s = StepKruskal(s, nodes)
	assert.Equal(t, []string{"CD", "AB", "BD"}, ids(s.MSTEdges))
	assert.Equal(t, 30, s.TotalCost)
}

func TestKruskalIdempotentTerminal(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitKruskal(nodes, edges)
	for !s.Completed {
		s = StepKruskal(s, nodes)
	}
	again := StepKruskal(s, nodes)
	assert.Equal(t, s, again)
}

func TestKruskalDisconnected(t *testing.T) {
	nodes := []graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	edges := []graph.Edge{{ID: "AB", Source: "A", Target: "B", Weight: 5}}

	s := StepKruskal(InitKruskal(nodes, edges), nodes)
	assert.True(t, s.Completed)
	assert.True(t, s.Disconnected)
	assert.Len(t, s.MSTEdges, 1)
	assert.Contains(t, s.Explanation, "disconnected")
}

func TestKruskalNoEdges(t *testing.T) {
	s := InitKruskal([]graph.Node{{ID: "A"}, {ID: "B"}}, nil)
	assert.True(t, s.Completed)
	assert.True(t, s.Disconnected)
	assert.Zero(t, s.TotalSteps)

	single := InitKruskal([]graph.Node{{ID: "A"}}, nil)
	assert.True(t, single.Completed)
	assert.False(t, single.Disconnected)
}

// =============================================================================
// Prim
// =============================================================================

func TestInitPrim(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitPrim(nodes, edges)

	assert.Equal(t, "A", s.StartNode)
	assert.Equal(t, []string{"A"}, s.VisitedNodes)
	assert.Equal(t, []string{"AB", "AC", "AD"}, ids(s.CandidateEdges))
	require.NotNil(t, s.CurrentEdge)
	assert.Equal(t, "AB", s.CurrentEdge.ID)
	assert.Equal(t, 3, s.TotalSteps)
	assert.Contains(t, s.Explanation, "Starting Prim's algorithm from node A.")
}

func TestPrimSimpleNetwork(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitPrim(nodes, edges)

	s = StepPrim(s, nodes, edges)
	assert.Equal(t, 10, s.TotalCost)
	assert.Equal(t, []string{"A", "B"}, s.VisitedNodes)
	assert.Equal(t, []string{"BD", "AC", "BC", "AD"}, ids(s.CandidateEdges))
	assert.Equal(t, "Added edge from A to B (weight: 10). This was the minimum weight edge connecting "+
		"our current tree to an unvisited node. Total cost so far: 10.", s.Explanation)

	s = StepPrim(s, nodes, edges)
	assert.Equal(t, 22, s.TotalCost)
	assert.Equal(t, []string{"CD", "AC", "BC"}, ids(s.CandidateEdges))
	assert.Equal(t, "CD", s.CurrentEdge.ID)

	s = StepPrim(s, nodes, edges)
	assert.Equal(t, 30, s.TotalCost)
	assert.True(t, s.Completed)
	assert.False(t, s.Disconnected)
	assert.Equal(t, []string{"AB", "BD", "CD"}, ids(s.MSTEdges))
	assert.Contains(t, s.Explanation, "connected all nodes with total cost 30")
	for _, e := range s.MSTEdges {
		assert.Equal(t, graph.StatusAccepted, e.Status)
	}
}

func TestPrimFrontierInvariant(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitPrim(nodes, edges)
	for !s.Completed {
		for _, e := range s.CandidateEdges {
			assert.NotEqual(t, s.Visited(e.Source), s.Visited(e.Target), "candidate %s", e.ID)
		}
		assert.Len(t, s.VisitedNodes, len(s.MSTEdges)+1)
		s = StepPrim(s, nodes, edges)
	}
}

func TestPrimDisconnected(t *testing.T) {
	nodes := []graph.Node{{ID: "A", Name: "A"}, {ID: "B", Name: "B"}, {ID: "C", Name: "C"}}
	edges := []graph.Edge{{ID: "AB", Source: "A", Target: "B", Weight: 5}}

	s := StepPrim(InitPrim(nodes, edges), nodes, edges)
	assert.True(t, s.Completed)
	assert.True(t, s.Disconnected)
	assert.Len(t, s.MSTEdges, 1)
	assert.Equal(t, 5, s.TotalCost)
	assert.Contains(t, s.Explanation, "only 2 of 3 nodes")
}

func TestPrimIsolatedStart(t *testing.T) {
	nodes := []graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	edges := []graph.Edge{{ID: "BC", Source: "B", Target: "C", Weight: 1}}

	s := InitPrim(nodes, edges)
	assert.Empty(t, s.CandidateEdges)
	assert.Nil(t, s.CurrentEdge)

	s = StepPrim(s, nodes, edges)
	assert.True(t, s.Completed)
	assert.True(t, s.Disconnected)
	assert.Empty(t, s.MSTEdges)
}

func TestPrimEmptyGraph(t *testing.T) {
	s := InitPrim(nil, nil)
	assert.True(t, s.Completed)
	assert.Zero(t, s.TotalSteps)
	assert.Empty(t, s.MSTEdges)
	assert.Equal(t, "No nodes to process", s.Explanation)
	assert.Equal(t, s, StepPrim(s, nil, nil))
}

func TestPrimStableTies(t *testing.T) {
	nodes := []graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}}
	// BD precedes AC in input order, but AC joins the frontier first.
	edges := []graph.Edge{
		{ID: "BD", Source: "B", Target: "D", Weight: 4},
		{ID: "AB", Source: "A", Target: "B", Weight: 1},
		{ID: "AC", Source: "A", Target: "C", Weight: 4},
		{ID: "CD", Source: "C", Target: "D", Weight: 9},
	}

	s := InitPrim(nodes, edges)
	require.Equal(t, []string{"AB", "AC"}, ids(s.CandidateEdges))

	s = StepPrim(s, nodes, edges)
	require.Equal(t, []string{"AB"}, ids(s.MSTEdges))
	assert.Equal(t, []string{"AC", "BD"}, ids(s.CandidateEdges), "existing candidate stays ahead of an equal new one")
	require.NotNil(t, s.CurrentEdge)
	assert.Equal(t, "AC", s.CurrentEdge.ID)

	s = StepPrim(s, nodes, edges)
	assert.Equal(t, []string{"AB", "AC"}, ids(s.MSTEdges))
	assert.Equal(t, []string{"A", "B", "C"}, s.VisitedNodes)
	assert.Equal(t, []string{"BD", "CD"}, ids(s.CandidateEdges))

	s = StepPrim(s, nodes, edges)
	assert.True(t, s.Completed)
	assert.Equal(t, []string{"AB", "AC", "BD"}, ids(s.MSTEdges))
	assert.Equal(t, 9, s.TotalCost)
}

func TestPrimSkipsStaleCandidates(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitPrim(nodes, edges)
	// A hand-built state whose cheapest candidate closes a cycle.
	s.VisitedNodes = []string{"A", "B"}
	s.MSTEdges = []graph.Edge{edges[0]}
	s.TotalCost = 10
	s.Step = 1
	s.CandidateEdges = []graph.Edge{edges[0], edges[2]}

	s = StepPrim(s, nodes, edges)
	assert.Equal(t, "BD", s.MSTEdges[1].ID)
	assert.Equal(t, 22, s.TotalCost)
}

func TestPrimIdempotentTerminal(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := InitPrim(nodes, edges)
	for !s.Completed {
		s = StepPrim(s, nodes, edges)
	}
	again := StepPrim(s, nodes, edges)
	assert.Equal(t, s, again)
}

func TestProjectPrimEdges(t *testing.T) {
	nodes, edges := simpleNetwork()
	s := StepPrim(InitPrim(nodes, edges), nodes, edges)

	got := ProjectPrimEdges(s, edges)
	want := map[string]graph.EdgeStatus{
		"AB": graph.StatusAccepted,
		"BD": graph.StatusConsidering,
		"AC": graph.StatusPending, // frontier candidate, still pending
		"CD": graph.StatusPending,
		"AD": graph.StatusPending,
		"BC": graph.StatusPending,
	}
	require.Len(t, got, len(edges))
	for i, e := range got {
		assert.Equal(t, edges[i].ID, e.ID, "order preserved")
		assert.Equal(t, want[e.ID], e.Status, "edge %s", e.ID)
	}
}

// =============================================================================
// Properties
// =============================================================================

func randomConnected(r *rand.Rand, n int) ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%d", i)}
	}
	var edges []graph.Edge
	seen := map[[2]int]bool{}
	add := func(a, b int) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		if seen[[2]int{a, b}] {
			return
		}
		seen[[2]int{a, b}] = true
		edges = append(edges, graph.Edge{
			ID:     fmt.Sprintf("e%d", len(edges)),
			Source: nodes[a].ID,
			Target: nodes[b].ID,
			Weight: 1 + r.Intn(20), // plenty of ties
		})
	}
	for i := 1; i < n; i++ {
		add(r.Intn(i), i)
	}
	for i := 0; i < n; i++ {
		add(r.Intn(n), r.Intn(n))
	}
	return nodes, edges
}

func TestEnginesAgree(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		nodes, edges := randomConnected(r, 2+r.Intn(14))

		for _, kind := range Algorithms {
			trace, err := Solve(kind, nodes, edges)
			require.NoError(t, err)

			final := trace[len(trace)-1]
			require.True(t, final.Completed(), "%s trial %d", kind, trial)
			assert.Len(t, final.MSTEdges(), len(nodes)-1, "%s trial %d", kind, trial)
			assert.False(t, final.Disconnected())

			prev := 0
			for _, st := range trace {
				assert.GreaterOrEqual(t, st.TotalCost(), prev, "cost must not decrease")
				prev = st.TotalCost()
				assertAcyclic(t, st.MSTEdges())
				assert.Equal(t, graph.TotalWeight(st.MSTEdges()), st.TotalCost())
			}
		}

		k, _ := Solve(Kruskal, nodes, edges)
		p, _ := Solve(Prim, nodes, edges)
		assert.Equal(t, k[len(k)-1].TotalCost(), p[len(p)-1].TotalCost(), "trial %d", trial)
	}
}

// assertAcyclic checks |touched vertices| - |edges| == components among them.
func assertAcyclic(t *testing.T, edges []graph.Edge) {
	t.Helper()
	touched := map[string]bool{}
	for _, e := range edges {
		touched[e.Source] = true
		touched[e.Target] = true
	}
	var vs []string
	for v := range touched {
		vs = append(vs, v)
	}
	set := dsu.New(vs)
	for _, e := range edges {
		set.Union(e.Source, e.Target)
	}
	assert.Equal(t, set.Count(), len(vs)-len(edges), "tree edges form a cycle")
}

// =============================================================================
// Run
// =============================================================================

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{"kruskal", Kruskal},
		{"Kruskal", Kruskal},
		{" prim ", Prim},
		{"prims", Prim},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseAlgorithm("boruvka")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	_, err = Start("boruvka", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestRunEdges(t *testing.T) {
	nodes, edges := simpleNetwork()

	k, err := Start(Kruskal, nodes, edges)
	require.NoError(t, err)
	k = k.Step(nodes, edges)
	got := k.Edges(edges)
	assert.Equal(t, graph.StatusAccepted, got[3].Status, "C-D accepted")
	assert.Equal(t, graph.StatusPending, got[0].Status)
	assert.Equal(t, "AB", got[0].ID)

	p, err := Start(Prim, nodes, edges)
	require.NoError(t, err)
	assert.Equal(t, graph.StatusConsidering, p.Edges(edges)[0].Status)
}

func TestRunJSON(t *testing.T) {
	fixClock(t)
	nodes, edges := simpleNetwork()
	r, _ := Start(Prim, nodes, edges)
	r = r.Step(nodes, edges)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back Run
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Prim, back.Kind)
	assert.Nil(t, back.Kruskal)

	// A decoded state resumes exactly like the original.
	want := r.Step(nodes, edges)
	got := back.Step(nodes, edges)
	assert.Equal(t, want.TotalCost(), got.TotalCost())
	assert.Equal(t, ids(want.MSTEdges()), ids(got.MSTEdges()))
	assert.Equal(t, want.Prim.VisitedNodes, got.Prim.VisitedNodes)
}

func TestEstimateComplexity(t *testing.T) {
	k := EstimateComplexity(Kruskal, 4, 8)
	assert.Equal(t, 24.0, k.Operations)
	assert.Equal(t, "O(E log E)", k.Notation)

	p := EstimateComplexity(Prim, 4, 8)
	assert.Equal(t, 16.0, p.Operations)

	assert.Zero(t, EstimateComplexity(Kruskal, 0, 0).Operations)
	assert.Zero(t, EstimateComplexity(Prim, 1, 0).Operations)
}
