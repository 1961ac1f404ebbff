package mst

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/spantree/pkg/graph"
)

// PrimState is an immutable snapshot of a Prim run.
//
// Every edge in CandidateEdges has exactly one endpoint in VisitedNodes, and
// len(VisitedNodes) == len(MSTEdges)+1 once a start node exists.
type PrimState struct {
	Step       int  `json:"step"`
	TotalSteps int  `json:"total_steps"`
	Completed  bool `json:"completed"`
	// Disconnected is set when the frontier emptied before every node was reached.
	Disconnected bool         `json:"disconnected"`
	MSTEdges     []graph.Edge `json:"mst_edges"`
	TotalCost    int          `json:"total_cost"`
	// VisitedNodes lists the tree's vertices in the order they joined it.
	VisitedNodes   []string     `json:"visited_nodes"`
	CandidateEdges []graph.Edge `json:"candidate_edges"`
	CurrentEdge    *graph.Edge  `json:"current_edge"`
	Explanation    string       `json:"explanation"`
	StartNode      string       `json:"start_node"`
	StartTime      time.Time    `json:"start_time"`
}

// Visited reports whether id is part of the grown tree.
func (s PrimState) Visited(id string) bool {
	return slices.Contains(s.VisitedNodes, id)
}

// InitPrim roots the tree at nodes[0] and seeds the frontier with its
// incident edges sorted by weight. Without nodes the state is already
// completed.
func InitPrim(nodes []graph.Node, edges []graph.Edge) PrimState {
	if len(nodes) == 0 {
		return PrimState{
			Completed:      true,
			MSTEdges:       []graph.Edge{},
			VisitedNodes:   []string{},
			CandidateEdges: []graph.Edge{},
			Explanation:    "No nodes to process",
			StartTime:      now(),
		}
	}

	start := nodes[0]
	var frontier []graph.Edge
	for _, e := range edges {
		if e.Touches(start.ID) {
			frontier = append(frontier, e.WithStatus(graph.StatusPending))
		}
	}
	slices.SortStableFunc(frontier, byWeight)

	return PrimState{
		TotalSteps:     len(nodes) - 1,
		MSTEdges:       []graph.Edge{},
		VisitedNodes:   []string{start.ID},
		CandidateEdges: nonNil(frontier),
		CurrentEdge:    first(frontier),
		Explanation: fmt.Sprintf("Starting Prim's algorithm from node %s. "+
			"We begin by adding this node to our MST and considering all its adjacent edges.", start.DisplayName()),
		StartNode: start.ID,
		StartTime: now(),
	}
}

// StepPrim annexes one node: it takes the cheapest frontier edge with exactly
// one visited endpoint, prunes edges that now close a cycle, and adds the new
// node's outgoing edges to the frontier.
func StepPrim(state PrimState, nodes []graph.Node, edges []graph.Edge) PrimState {
	if state.Completed || len(state.CandidateEdges) == 0 {
		return finishPrim(state, nodes)
	}

	visited := make(map[string]bool, len(state.VisitedNodes)+1)
	for _, id := range state.VisitedNodes {
		visited[id] = true
	}
	crossing := func(e graph.Edge) bool { return visited[e.Source] != visited[e.Target] }

	idx := slices.IndexFunc(state.CandidateEdges, crossing)
	if idx < 0 {
		return finishPrim(state, nodes)
	}
	selected := state.CandidateEdges[idx]

	from, added := selected.Source, selected.Target
	if !visited[from] {
		from, added = added, from
	}
	visited[added] = true

	mstEdges := append(slices.Clone(state.MSTEdges), selected.WithStatus(graph.StatusAccepted))
	cost := state.TotalCost + selected.Weight

	frontier := make([]graph.Edge, 0, len(state.CandidateEdges))
	for i, e := range state.CandidateEdges {
		if i != idx && crossing(e) {
			frontier = append(frontier, e)
		}
	}
	for _, e := range edges {
		if !e.Touches(added) || !crossing(e) || containsEdge(frontier, e.ID) || containsEdge(mstEdges, e.ID) {
			continue
		}
		frontier = append(frontier, e.WithStatus(graph.StatusPending))
	}
	slices.SortStableFunc(frontier, byWeight)

	next := state
	next.Step = state.Step + 1
	next.MSTEdges = mstEdges
	next.TotalCost = cost
	next.VisitedNodes = append(slices.Clone(state.VisitedNodes), added)
	next.CandidateEdges = frontier
	next.CurrentEdge = first(frontier)
	next.Completed = next.Step >= next.TotalSteps || len(frontier) == 0

	switch {
	case !next.Completed:
		next.Explanation = fmt.Sprintf("Added edge from %s to %s (weight: %d). "+
			"This was the minimum weight edge connecting our current tree to an unvisited node. Total cost so far: %d.",
			graph.NameOf(nodes, from), graph.NameOf(nodes, added), selected.Weight, cost)
	case len(next.VisitedNodes) < len(nodes):
		next.Disconnected = true
		next.Explanation = primDisconnected(next, nodes)
	default:
		next.Explanation = fmt.Sprintf("Algorithm completed! We've connected all nodes with total cost %d. "+
			"Prim's algorithm builds the MST by always choosing the minimum weight edge that connects the growing tree to a new node.", cost)
	}
	return next
}

// finishPrim marks a state completed. Already completed states pass through
// unchanged; otherwise the frontier has run dry and the explanation reports
// whether the tree spans the graph.
func finishPrim(state PrimState, nodes []graph.Node) PrimState {
	if state.Completed {
		return state
	}
	state.Completed = true
	if len(state.VisitedNodes) < len(nodes) {
		state.Disconnected = true
		state.Explanation = primDisconnected(state, nodes)
	} else {
		state.Explanation = "Algorithm completed. All nodes have been connected with minimum cost."
	}
	return state
}

func primDisconnected(s PrimState, nodes []graph.Node) string {
	return fmt.Sprintf("Algorithm completed, but the graph is disconnected: only %d of %d nodes are reachable from %s. "+
		"The partial tree has total cost %d.",
		len(s.VisitedNodes), len(nodes), graph.NameOf(nodes, s.StartNode), s.TotalCost)
}

// ProjectPrimEdges maps allEdges to display statuses: accepted for tree edges,
// considering for the current edge, pending for everything else. Frontier
// candidates are reported as pending, not highlighted individually.
func ProjectPrimEdges(state PrimState, allEdges []graph.Edge) []graph.Edge {
	out := make([]graph.Edge, len(allEdges))
	for i, e := range allEdges {
		switch {
		case containsEdge(state.MSTEdges, e.ID):
			out[i] = e.WithStatus(graph.StatusAccepted)
		case state.CurrentEdge != nil && state.CurrentEdge.ID == e.ID:
			out[i] = e.WithStatus(graph.StatusConsidering)
		default:
			out[i] = e.WithStatus(graph.StatusPending)
		}
	}
	return out
}

func containsEdge(edges []graph.Edge, id string) bool {
	return slices.ContainsFunc(edges, func(e graph.Edge) bool { return e.ID == id })
}

func first(edges []graph.Edge) *graph.Edge {
	if len(edges) == 0 {
		return nil
	}
	e := edges[0]
	return &e
}

func nonNil(edges []graph.Edge) []graph.Edge {
	if edges == nil {
		return []graph.Edge{}
	}
	return edges
}
