package mst

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/spantree/pkg/dsu"
	"github.com/matzehuels/spantree/pkg/graph"
)

// now is swapped in tests.
var now = time.Now

// KruskalState is an immutable snapshot of a Kruskal run.
//
// SortedEdges[0:Step] carry a terminal status (accepted or rejected) and
// SortedEdges[Step:] are pending.
type KruskalState struct {
	Step        int          `json:"step"`
	TotalSteps  int          `json:"total_steps"`
	SortedEdges []graph.Edge `json:"sorted_edges"`
	MSTEdges    []graph.Edge `json:"mst_edges"`
	TotalCost   int          `json:"total_cost"`
	CurrentEdge *graph.Edge  `json:"current_edge"`
	Completed   bool         `json:"completed"`
	// Disconnected is set when the run completed with fewer than n-1 tree edges.
	Disconnected bool      `json:"disconnected"`
	Explanation  string    `json:"explanation"`
	StartTime    time.Time `json:"start_time"`
}

const kruskalReady = "Ready to start Kruskal's algorithm. We'll process edges in order of increasing weight."

// InitKruskal sorts edges ascending by weight (stable) and marks them pending.
//
// A graph without edges has nothing to examine, so its initial state is
// already completed.
func InitKruskal(nodes []graph.Node, edges []graph.Edge) KruskalState {
	sorted := graph.ResetStatus(edges)
	slices.SortStableFunc(sorted, byWeight)

	s := KruskalState{
		TotalSteps:  len(sorted),
		SortedEdges: sorted,
		MSTEdges:    []graph.Edge{},
		Explanation: kruskalReady,
		StartTime:   now(),
	}
	if len(sorted) == 0 {
		s.Completed = true
		s.Disconnected = len(nodes) > 1
		s.Explanation = kruskalSummary(s.MSTEdges, 0, s.Disconnected)
	}
	return s
}

// StepKruskal examines the next edge in sorted order.
//
// The partition is rebuilt by replaying the accepted edges among
// SortedEdges[0:Step]; the incoming MSTEdges and TotalCost are recomputed from
// that replay rather than trusted. A completed state is returned unchanged.
func StepKruskal(state KruskalState, nodes []graph.Node) KruskalState {
	if state.Completed || state.Step >= state.TotalSteps {
		return state
	}

	set := dsu.New(graph.NodeIDs(nodes))
	mstEdges := make([]graph.Edge, 0, max(len(nodes)-1, 0))
	cost := 0
	for _, e := range state.SortedEdges[:state.Step] {
		if e.Status == graph.StatusAccepted {
			set.Union(e.Source, e.Target)
			mstEdges = append(mstEdges, e)
			cost += e.Weight
		}
	}

	current := state.SortedEdges[state.Step].WithStatus(graph.StatusConsidering)
	src := graph.NameOf(nodes, current.Source)
	dst := graph.NameOf(nodes, current.Target)

	var explanation string
	if set.Connected(current.Source, current.Target) {
		current.Status = graph.StatusRejected
		explanation = fmt.Sprintf("Edge %s-%s (weight: %d) creates a cycle. Rejected.", src, dst, current.Weight)
	} else {
		set.Union(current.Source, current.Target)
		current.Status = graph.StatusAccepted
		mstEdges = append(mstEdges, current)
		cost += current.Weight
		explanation = fmt.Sprintf("Edge %s-%s (weight: %d) connects different components. Added to MST.", src, dst, current.Weight)
	}

	sorted := slices.Clone(state.SortedEdges)
	sorted[state.Step] = current

	next := state
	next.Step = state.Step + 1
	next.SortedEdges = sorted
	next.MSTEdges = mstEdges
	next.TotalCost = cost
	next.CurrentEdge = &current
	next.Completed = next.Step >= next.TotalSteps || len(mstEdges) >= len(nodes)-1
	if next.Completed {
		next.Disconnected = len(mstEdges) < len(nodes)-1
		explanation += " " + kruskalSummary(mstEdges, cost, next.Disconnected)
	}
	next.Explanation = explanation
	return next
}

func kruskalSummary(mstEdges []graph.Edge, cost int, disconnected bool) string {
	msg := fmt.Sprintf("Algorithm completed! MST has %d edges with total cost %d.", len(mstEdges), cost)
	if disconnected {
		msg += " The graph is disconnected, so the result is a spanning forest."
	}
	return msg
}

func byWeight(a, b graph.Edge) int {
	return a.Weight - b.Weight
}
