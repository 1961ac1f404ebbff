// Package mst implements Kruskal's and Prim's minimum spanning tree algorithms
// as pure, resumable state machines.
//
// Each engine exposes an Init function that builds an initial state and a
// Step function that performs exactly one visible unit of work (one edge
// examined, one node annexed) and returns a new state. States are plain
// values: they hold no references to the caller's graph, can be serialized to
// JSON, and can be stepped again after any pause or reset.
//
// # Kruskal
//
//	s := mst.InitKruskal(nodes, edges)
//	for !s.Completed {
//	    s = mst.StepKruskal(s, nodes)
//	}
//
// Edges are stable-sorted by weight, so equal weights keep their input order.
// The disjoint-set partition is rebuilt from the accepted prefix of the sorted
// edge list on every step; it is never stored in the state.
//
// # Prim
//
//	s := mst.InitPrim(nodes, edges)
//	for !s.Completed {
//	    s = mst.StepPrim(s, nodes, edges)
//	}
//	display := mst.ProjectPrimEdges(s, edges)
//
// The tree grows from nodes[0]. The frontier is kept stable-sorted by weight.
//
// # Runs
//
// [Run] is a tagged union over the two engines, used by drivers that treat
// both algorithms uniformly (comparison mode, sessions, the pipeline):
//
//	r, _ := mst.Start(mst.Prim, nodes, edges)
//	r = r.Step(nodes, edges)
//	r.TotalCost()
//
// # Errors
//
// The engines never fail. A disconnected graph completes normally with fewer
// than n-1 tree edges and Disconnected set. Stepping a completed state is a
// no-op. Inputs are assumed valid (unique ids, known endpoints, positive
// weights); check them with graph.Validate at the boundary.
package mst
