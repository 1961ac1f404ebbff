package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/spantree/pkg/graph"
)

func ExampleGraph_AddEdge() {
	g := graph.New()
	metro := g.AddNode("Metro", 300, 200)
	port := g.AddNode("Port", 420, 260)

	e, _ := g.AddEdge(metro.ID, port.ID, 12)
	fmt.Println(e.ID, e.Source, "--", e.Target, e.Weight, e.Status)

	_, err := g.AddEdge(port.ID, metro.ID, 7)
	fmt.Println(err)
	// Output:
	// edge-0 node-0 -- node-1 12 pending
	// INVALID_GRAPH: edge-0 already connects node-1 and node-0
}

func ExampleReadGraph() {
	input := `{
	  "name": "Triangle",
	  "nodes": [
	    {"id": "node-0", "name": "A", "x": 0, "y": 0},
	    {"id": "node-1", "name": "B", "x": 10, "y": 0},
	    {"id": "node-4", "name": "C", "x": 5, "y": 8}
	  ],
	  "edges": [
	    {"id": "edge-0", "source": "node-0", "target": "node-1", "weight": 3, "status": "accepted"},
	    {"id": "edge-1", "source": "node-1", "target": "node-9", "weight": 4}
	  ]
	}`

	g, data, err := graph.ReadGraph(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(data.Name, g)
	fmt.Println(g.Edges[0].Status)
	fmt.Println(g.AddNode("D", 1, 1).ID)
	// Output:
	// Triangle 3 nodes, 1 edges
	// pending
	// node-5
}

func ExampleWriteGraph() {
	g := graph.New()
	a := g.AddNode("A", 0, 0)
	b := g.AddNode("B", 10, 0)
	_, _ = g.AddEdge(a.ID, b.ID, 5)

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, "Pair", "", &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(strings.Contains(buf.String(), `"version": "1.0"`))
	fmt.Println(graph.Filename("Pair"))
	// Output:
	// true
	// pair.json
}
