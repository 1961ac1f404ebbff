// Package pkg provides the core libraries for Spantree, a step-by-step
// minimum spanning tree visualizer.
//
// # Overview
//
// Spantree runs Kruskal's and Prim's algorithms one step at a time over small
// weighted graphs, compares them side by side, and draws every intermediate
// state. The pkg directory is organized into four areas:
//
//  1. Algorithms - [dsu], [mst], [compare], [history]
//  2. Graphs - [graph], [generate], [layout]
//  3. Output - [render], [pipeline]
//  4. Serving - [server], [session], [library], [cache], [config], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	GraphData file / template / random generator
//	         ↓
//	    [graph] package (sanitize + validate)
//	         ↓
//	    [layout] package (position nodes)
//	         ↓
//	    [mst] package (engine trace, one state per step)
//	         ↓
//	    [render] package (DOT → SVG/PNG/PDF)
//
// [pipeline] wires these stages together with caching, and both the CLI and
// the HTTP API go through it.
//
// # Quick Start
//
// Solve a scenario and print every step:
//
//	data, _ := generate.Scenario("city-power-grid")
//	g, _, _ := graph.Import(data)
//
//	trace, _ := mst.Solve(mst.Prim, g.Nodes, g.Edges)
//	for _, run := range trace {
//	    fmt.Println(run.StepCount(), run.Explanation())
//	}
//
// Race both algorithms on one timer:
//
//	c, _ := compare.New(g.Nodes, g.Edges, mst.Kruskal, mst.Prim, compare.Synchronized)
//	c.Start()
//	_ = c.Run(ctx, compare.Every(200*time.Millisecond), nil)
//
// # Main Packages
//
// ## Algorithms
//
// [dsu] - Disjoint-set union over string ids with path compression and union
// by rank. Used by Kruskal's cycle check and by component statistics.
//
// [mst] - Kruskal and Prim as pure state machines. Every step returns a new
// state, so a run can be paused, serialized and resumed anywhere.
//
// [compare] - Two runs side by side, stepped in synchronized or independent
// mode, with a winner by step count.
//
// [history] - The last ten completed runs, kept by the server and persisted
// by the CLI.
//
// ## Graphs
//
// [graph] - Nodes, edges, the GraphData envelope, validation and statistics.
//
// [generate] - Predefined scenarios, named templates and random graphs.
//
// [layout] - Manual, circular, grid, hierarchical and force-directed layouts.
//
// ## Output
//
// [render] - Graphviz drawing of one run state, coloured by edge status.
//
// [pipeline] - Layout → solve → render with per-stage caching.
//
// ## Serving
//
// [server] - HTTP API for engines, layouts, rendering, sessions and the graph
// library.
//
// [session] - Comparison sessions with memory, file and Redis backends.
//
// [library] - Saved graphs in memory or MongoDB.
//
// [cache] - Result cache with null, file and Redis backends.
//
// [config] - TOML configuration file.
//
// [observability] - Hooks for pipeline, engine, cache and HTTP events, with a
// Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/mst/...                # Specific package
//	go test -run Example                 # Examples only
//
// [dsu]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/dsu
// [mst]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/mst
// [compare]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/compare
// [history]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/history
// [graph]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/graph
// [generate]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/generate
// [layout]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/server
// [session]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/session
// [library]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/library
// [cache]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/spantree/pkg/observability
package pkg
