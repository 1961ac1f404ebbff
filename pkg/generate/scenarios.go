package generate

import (
	"strings"

	"github.com/matzehuels/spantree/pkg/graph"
)

const scenarioCreated = "2024-01-01"

// Scenarios returns the predefined teaching graphs as export envelopes.
// Each call returns fresh copies.
func Scenarios() []graph.GraphData {
	return []graph.GraphData{
		scenario("Simple Network",
			"A basic 4-node network perfect for understanding MST concepts",
			[]graph.Node{
				{ID: "node-0", Name: "A", X: 150, Y: 150},
				{ID: "node-1", Name: "B", X: 450, Y: 150},
				{ID: "node-2", Name: "C", X: 150, Y: 350},
				{ID: "node-3", Name: "D", X: 450, Y: 350},
			},
			[][3]int{{0, 1, 10}, {0, 2, 15}, {1, 3, 12}, {2, 3, 8}, {0, 3, 25}, {1, 2, 20}},
		),
		scenario("City Power Grid",
			"A realistic city power grid scenario with 6 cities and varying connection costs",
			[]graph.Node{
				{ID: "node-0", Name: "Metro", X: 300, Y: 100},
				{ID: "node-1", Name: "North", X: 200, Y: 200},
				{ID: "node-2", Name: "East", X: 500, Y: 200},
				{ID: "node-3", Name: "West", X: 100, Y: 350},
				{ID: "node-4", Name: "South", X: 300, Y: 400},
				{ID: "node-5", Name: "Port", X: 450, Y: 350},
			},
			[][3]int{
				{0, 1, 15}, {0, 2, 18}, {1, 3, 22}, {1, 4, 28}, {2, 5, 12},
				{3, 4, 30}, {4, 5, 25}, {0, 4, 35}, {2, 4, 20},
			},
		),
		scenario("Dense Network",
			"A densely connected 5-node network showcasing algorithm efficiency",
			[]graph.Node{
				{ID: "node-0", Name: "Hub", X: 300, Y: 200},
				{ID: "node-1", Name: "N1", X: 200, Y: 100},
				{ID: "node-2", Name: "N2", X: 400, Y: 100},
				{ID: "node-3", Name: "N3", X: 150, Y: 300},
				{ID: "node-4", Name: "N4", X: 450, Y: 300},
			},
			[][3]int{
				{0, 1, 8}, {0, 2, 12}, {0, 3, 15}, {0, 4, 10}, {1, 2, 25},
				{1, 3, 18}, {2, 4, 14}, {3, 4, 22}, {1, 4, 30}, {2, 3, 28},
			},
		),
	}
}

// Scenario finds a predefined scenario by name, ignoring case. Dashes may
// stand in for spaces, so "city-power-grid" matches "City Power Grid".
func Scenario(name string) (graph.GraphData, bool) {
	name = strings.ReplaceAll(name, "-", " ")
	for _, s := range Scenarios() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return graph.GraphData{}, false
}

func scenario(name, desc string, nodes []graph.Node, edges [][3]int) graph.GraphData {
	g := fixed(nodes, edges)
	return graph.GraphData{
		Name:        name,
		Description: desc,
		Nodes:       g.Nodes,
		Edges:       g.Edges,
		Metadata: graph.Metadata{
			Created:   scenarioCreated,
			Version:   graph.FormatVersion,
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		},
	}
}
