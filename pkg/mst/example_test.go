package mst_test

import (
	"fmt"

	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
)

func ExampleStepKruskal() {
	nodes := []graph.Node{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	edges := []graph.Edge{
		{ID: "e0", Source: "a", Target: "b", Weight: 4},
		{ID: "e1", Source: "b", Target: "c", Weight: 2},
		{ID: "e2", Source: "a", Target: "c", Weight: 3},
	}

	s := mst.InitKruskal(nodes, edges)
	for !s.Completed {
		s = mst.StepKruskal(s, nodes)
		fmt.Println(s.Explanation)
	}
	// Output:
	// Edge B-C (weight: 2) connects different components. Added to MST.
	// Edge A-C (weight: 3) connects different components. Added to MST. Algorithm completed! MST has 2 edges with total cost 5.
}

func ExampleSolve() {
	nodes := []graph.Node{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	edges := []graph.Edge{
		{ID: "e0", Source: "a", Target: "b", Weight: 4},
		{ID: "e1", Source: "b", Target: "c", Weight: 2},
	}

	trace, _ := mst.Solve(mst.Prim, nodes, edges)
	final := trace[len(trace)-1]
	fmt.Println(len(trace)-1, "steps, cost", final.TotalCost())
	// Output:
	// 2 steps, cost 6
}
