package graph

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
)

// Id prefixes for builder-generated elements.
const (
	NodeIDPrefix = "node-"
	EdgeIDPrefix = "edge-"
)

// =============================================================================
// Builder Operations
// =============================================================================

// AddNode appends a node with the next "node-N" id and returns it.
func (g *Graph) AddNode(name string, x, y float64) Node {
	n := Node{
		ID:   NodeIDPrefix + strconv.Itoa(g.NodeCounter),
		Name: name,
		X:    x,
		Y:    y,
	}
	g.NodeCounter++
	g.Nodes = append(g.Nodes, n)
	return n
}

// AddEdge appends a pending edge with the next "edge-N" id.
//
// It rejects unknown endpoints, self loops, non-positive weights and
// duplicates. Duplicate detection checks both orientations.
func (g *Graph) AddEdge(source, target string, weight int) (Edge, error) {
	if source == target {
		return Edge{}, apperrors.New(apperrors.ErrCodeInvalidGraph, "self loop on %s", source)
	}
	if err := apperrors.ValidateWeight(weight); err != nil {
		return Edge{}, err
	}
	for _, id := range []string{source, target} {
		if _, ok := g.Node(id); !ok {
			return Edge{}, apperrors.New(apperrors.ErrCodeGraphNotFound, "node %s not found", id)
		}
	}
	if existing, ok := g.FindEdge(source, target); ok {
		return Edge{}, apperrors.New(apperrors.ErrCodeInvalidGraph,
			"%s already connects %s and %s", existing.ID, source, target)
	}

	e := Edge{
		ID:     EdgeIDPrefix + strconv.Itoa(g.EdgeCounter),
		Source: source,
		Target: target,
		Weight: weight,
		Status: StatusPending,
	}
	g.EdgeCounter++
	g.Edges = append(g.Edges, e)
	return e, nil
}

// FindEdge returns the edge joining a and b in either orientation.
func (g *Graph) FindEdge(a, b string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.Connects(a, b) {
			return e, true
		}
	}
	return Edge{}, false
}

// RemoveNode deletes the node and every incident edge.
// It returns false when no node has the id.
func (g *Graph) RemoveNode(id string) bool {
	idx := -1
	for i, n := range g.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	g.Nodes = append(g.Nodes[:idx:idx], g.Nodes[idx+1:]...)

	kept := g.Edges[:0:0]
	for _, e := range g.Edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	return true
}

// RemoveEdge deletes the edge with the given id.
func (g *Graph) RemoveEdge(id string) bool {
	for i, e := range g.Edges {
		if e.ID == id {
			g.Edges = append(g.Edges[:i:i], g.Edges[i+1:]...)
			return true
		}
	}
	return false
}

// MoveNode sets the coordinates of a node.
func (g *Graph) MoveNode(id string, x, y float64) bool {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			g.Nodes[i].X, g.Nodes[i].Y = x, y
			return true
		}
	}
	return false
}

// SetPositions copies coordinates from nodes onto g by id. Nodes not present
// in g are ignored.
func (g *Graph) SetPositions(nodes []Node) {
	pos := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n
	}
	for i := range g.Nodes {
		if p, ok := pos[g.Nodes[i].ID]; ok {
			g.Nodes[i].X, g.Nodes[i].Y = p.X, p.Y
		}
	}
}

// Clear removes all nodes and edges and resets the counters.
func (g *Graph) Clear() {
	*g = Graph{}
}

// =============================================================================
// Counters
// =============================================================================

// nextCounters returns max(N)+1 over "node-N" and "edge-N" ids. Ids that do
// not follow the pattern count as 0.
func nextCounters(nodes []Node, edges []Edge) (int, int) {
	maxNode, maxEdge := -1, -1
	for _, n := range nodes {
		maxNode = max(maxNode, parseCounter(n.ID, NodeIDPrefix))
	}
	for _, e := range edges {
		maxEdge = max(maxEdge, parseCounter(e.ID, EdgeIDPrefix))
	}
	return maxNode + 1, maxEdge + 1
}

func parseCounter(id, prefix string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// String returns a short summary such as "4 nodes, 6 edges".
func (g *Graph) String() string {
	return fmt.Sprintf("%d nodes, %d edges", len(g.Nodes), len(g.Edges))
}
