package mst

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/matzehuels/spantree/pkg/graph"
)

// Algorithm names an MST engine.
type Algorithm string

// Supported algorithms.
const (
	Kruskal Algorithm = "kruskal"
	Prim    Algorithm = "prim"
)

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{Kruskal, Prim}

// ErrUnknownAlgorithm is returned when an algorithm name is not recognized.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case Kruskal:
		return Kruskal, nil
	case Prim, "prims":
		return Prim, nil
	}
	return "", fmt.Errorf("%w: %q (want kruskal or prim)", ErrUnknownAlgorithm, s)
}

// Title returns the display name, e.g. "Kruskal's".
func (a Algorithm) Title() string {
	switch a {
	case Kruskal:
		return "Kruskal's"
	case Prim:
		return "Prim's"
	}
	return string(a)
}

// =============================================================================
// Run - Tagged Union
// =============================================================================

// Run holds the state of exactly one engine, selected by Kind.
// The zero Run is invalid; construct one with [Start].
type Run struct {
	Kind    Algorithm     `json:"kind"`
	Kruskal *KruskalState `json:"kruskal,omitempty"`
	Prim    *PrimState    `json:"prim,omitempty"`
}

// Start initializes the engine selected by kind.
func Start(kind Algorithm, nodes []graph.Node, edges []graph.Edge) (Run, error) {
	switch kind {
	case Kruskal:
		s := InitKruskal(nodes, edges)
		return Run{Kind: Kruskal, Kruskal: &s}, nil
	case Prim:
		s := InitPrim(nodes, edges)
		return Run{Kind: Prim, Prim: &s}, nil
	}
	return Run{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, kind)
}

// Step advances the run by one engine step. Kruskal ignores edges after
// initialization; Prim needs them to grow the frontier.
func (r Run) Step(nodes []graph.Node, edges []graph.Edge) Run {
	switch r.Kind {
	case Kruskal:
		s := StepKruskal(*r.Kruskal, nodes)
		return Run{Kind: Kruskal, Kruskal: &s}
	case Prim:
		s := StepPrim(*r.Prim, nodes, edges)
		return Run{Kind: Prim, Prim: &s}
	}
	return r
}

// Completed reports whether the engine has finished.
func (r Run) Completed() bool {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.Completed
	case Prim:
		return r.Prim.Completed
	}
	return true
}

// Disconnected reports whether a finished run could not span the graph.
func (r Run) Disconnected() bool {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.Disconnected
	case Prim:
		return r.Prim.Disconnected
	}
	return false
}

// StepCount returns the number of steps taken so far.
func (r Run) StepCount() int {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.Step
	case Prim:
		return r.Prim.Step
	}
	return 0
}

// TotalSteps returns the engine's step budget.
func (r Run) TotalSteps() int {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.TotalSteps
	case Prim:
		return r.Prim.TotalSteps
	}
	return 0
}

// TotalCost returns the summed weight of the tree edges so far.
func (r Run) TotalCost() int {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.TotalCost
	case Prim:
		return r.Prim.TotalCost
	}
	return 0
}

// MSTEdges returns the tree edges in acceptance order.
func (r Run) MSTEdges() []graph.Edge {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.MSTEdges
	case Prim:
		return r.Prim.MSTEdges
	}
	return nil
}

// CurrentEdge returns the edge the engine is looking at, or nil.
func (r Run) CurrentEdge() *graph.Edge {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.CurrentEdge
	case Prim:
		return r.Prim.CurrentEdge
	}
	return nil
}

// Explanation returns the narration for the latest transition.
func (r Run) Explanation() string {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.Explanation
	case Prim:
		return r.Prim.Explanation
	}
	return ""
}

// StartTime returns the time the engine was initialized.
func (r Run) StartTime() time.Time {
	switch r.Kind {
	case Kruskal:
		return r.Kruskal.StartTime
	case Prim:
		return r.Prim.StartTime
	}
	return time.Time{}
}

// Edges returns allEdges annotated with display statuses for this run, in
// allEdges order. Kruskal reports its full sorted-list progress; Prim uses
// [ProjectPrimEdges].
func (r Run) Edges(allEdges []graph.Edge) []graph.Edge {
	switch r.Kind {
	case Kruskal:
		status := make(map[string]graph.EdgeStatus, len(r.Kruskal.SortedEdges))
		for _, e := range r.Kruskal.SortedEdges {
			status[e.ID] = e.Status
		}
		out := make([]graph.Edge, len(allEdges))
		for i, e := range allEdges {
			s, ok := status[e.ID]
			if !ok {
				s = graph.StatusPending
			}
			out[i] = e.WithStatus(s)
		}
		return out
	case Prim:
		return ProjectPrimEdges(*r.Prim, allEdges)
	}
	return graph.ResetStatus(allEdges)
}

// =============================================================================
// Solve
// =============================================================================

// Solve runs kind to completion and returns every state, starting with the
// initial one. The last element is the final state.
func Solve(kind Algorithm, nodes []graph.Node, edges []graph.Edge) ([]Run, error) {
	r, err := Start(kind, nodes, edges)
	if err != nil {
		return nil, err
	}
	trace := []Run{r}
	// Each step consumes an edge (Kruskal) or a node (Prim), plus one final
	// step for a frontier that empties early.
	limit := len(edges) + len(nodes) + 1
	for i := 0; !r.Completed() && i < limit; i++ {
		r = r.Step(nodes, edges)
		trace = append(trace, r)
	}
	return trace, nil
}

// =============================================================================
// Complexity
// =============================================================================

// Complexity is a theoretical operation count for one algorithm on a graph.
type Complexity struct {
	Algorithm  Algorithm `json:"algorithm"`
	Notation   string    `json:"notation"`
	Operations float64   `json:"operations"`
}

// EstimateComplexity returns E·log2(E) for Kruskal (sorting dominates) and
// E·log2(V) for Prim with a binary heap. Degenerate sizes yield zero.
func EstimateComplexity(kind Algorithm, nodeCount, edgeCount int) Complexity {
	c := Complexity{Algorithm: kind}
	switch kind {
	case Kruskal:
		c.Notation = "O(E log E)"
		c.Operations = nLogM(edgeCount, edgeCount)
	case Prim:
		c.Notation = "O(E log V)"
		c.Operations = nLogM(edgeCount, nodeCount)
	}
	return c
}

func nLogM(n, m int) float64 {
	if n <= 0 || m <= 1 {
		return 0
	}
	return float64(n) * math.Log2(float64(m))
}
