// Package graph provides the weighted undirected graph model used by the MST
// engines, layouts and every outer surface of Spantree.
//
// # Core Types
//
//   - [Node]: a named vertex with mutable layout coordinates
//   - [Edge]: a weighted undirected connection with a visualization [EdgeStatus]
//   - [Graph]: a plain (nodes, edges) pair plus the id counters used by the builder
//   - [GraphData]: the JSON import/export envelope with metadata
//
// # Edge Status
//
// Status is a transient annotation the engines overwrite for display only:
//
//	graph.StatusPending      // "pending"
//	graph.StatusConsidering  // "considering"
//	graph.StatusAccepted     // "accepted"
//	graph.StatusRejected     // "rejected"
//
// # Node Positions
//
// X and Y are owned by whichever layout last ran. A node without a position
// carries NaN coordinates and serializes them as null; see [Node.HasPosition].
//
// # Building Graphs
//
// The builder methods mirror an interactive editor:
//
//	g := graph.New()
//	a := g.AddNode("Metro", 300, 200)
//	b := g.AddNode("Port", 420, 260)
//	_, err := g.AddEdge(a.ID, b.ID, 12)   // node-0 -- node-1
//	g.RemoveNode(a.ID)                     // cascades to incident edges
//
// Ids come from monotonically increasing counters ("node-N", "edge-N").
//
// # Serialization
//
//	g, _ := graph.ReadGraphFile("network.json")   // File → Graph (sanitized)
//	graph.WriteGraphFile(g, "Network", "", "out.json")
//	data, _ := graph.MarshalGraph(g, "Network", "")
//
// Import drops invalid nodes and dangling edges rather than failing, and
// resets every edge to pending. Use [Graph.Validate] for a strict check.
//
// # Concurrency
//
// Graph values are not safe for concurrent mutation. Engines receive node and
// edge slices by value and never retain them.
package graph
