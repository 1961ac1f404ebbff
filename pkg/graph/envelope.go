package graph

import (
	"time"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
)

// FormatVersion is the GraphData schema version written on export.
const FormatVersion = "1.0"

// =============================================================================
// GraphData - Import/Export Envelope
// =============================================================================

// GraphData is the JSON envelope for saved and exchanged graphs.
type GraphData struct {
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Nodes       []Node   `json:"nodes" bson:"nodes"`
	Edges       []Edge   `json:"edges" bson:"edges"`
	Metadata    Metadata `json:"metadata" bson:"metadata"`
}

// Metadata describes a GraphData envelope.
type Metadata struct {
	Created   string `json:"created" bson:"created"`
	Version   string `json:"version" bson:"version"`
	NodeCount int    `json:"nodeCount" bson:"node_count"`
	EdgeCount int    `json:"edgeCount" bson:"edge_count"`
}

// Export wraps g in an envelope. Edge statuses are reset to pending and the
// metadata is filled from the graph and now.
func Export(g *Graph, name, description string, now time.Time) GraphData {
	return GraphData{
		Name:        name,
		Description: description,
		Nodes:       append([]Node{}, g.Nodes...),
		Edges:       ResetStatus(g.Edges),
		Metadata: Metadata{
			Created:   now.UTC().Format(time.RFC3339),
			Version:   FormatVersion,
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		},
	}
}

// ImportReport counts what Import discarded.
type ImportReport struct {
	DroppedNodes int
	DroppedEdges int
}

// Import sanitizes an envelope into a graph.
//
// Nodes without an id, a name or a position are dropped. Edges are dropped
// when they lack an id, have a non-positive weight, or reference a node that
// did not survive. Every kept edge is reset to pending and the id counters are
// derived from the kept ids. Import fails only when no valid node remains.
func Import(data GraphData) (*Graph, ImportReport, error) {
	var report ImportReport

	nodes := make([]Node, 0, len(data.Nodes))
	valid := make(map[string]bool, len(data.Nodes))
	for _, n := range data.Nodes {
		if n.ID == "" || n.Name == "" || !n.HasPosition() {
			report.DroppedNodes++
			continue
		}
		nodes = append(nodes, n)
		valid[n.ID] = true
	}
	if len(nodes) == 0 {
		return nil, report, apperrors.New(apperrors.ErrCodeInvalidGraph, "no valid nodes found in import data")
	}

	edges := make([]Edge, 0, len(data.Edges))
	for _, e := range data.Edges {
		if e.ID == "" || e.Weight <= 0 || !valid[e.Source] || !valid[e.Target] {
			report.DroppedEdges++
			continue
		}
		edges = append(edges, e.WithStatus(StatusPending))
	}

	g := &Graph{Nodes: nodes, Edges: edges}
	g.NodeCounter, g.EdgeCounter = nextCounters(nodes, edges)
	return g, report, nil
}

// Filename returns the export file name for an envelope name, e.g.
// "City Power Grid" becomes "city_power_grid.json".
func Filename(name string) string {
	return apperrors.SanitizeFilename(name) + ".json"
}
