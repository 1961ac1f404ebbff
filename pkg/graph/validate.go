package graph

import (
	"fmt"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
)

// Validate checks the preconditions the MST engines rely on: unique node and
// edge ids, edges that reference existing nodes, no self loops and positive
// weights. Duplicate connections are reported as well.
//
// All problems are collected into a single *errors.InvalidGraphError.
func (g *Graph) Validate() error {
	return Validate(g.Nodes, g.Edges)
}

// Validate is the slice form of [Graph.Validate].
func Validate(nodes []Node, edges []Edge) error {
	var problems []string

	ids := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		switch {
		case n.ID == "":
			problems = append(problems, fmt.Sprintf("node %d has no id", i))
		case ids[n.ID]:
			problems = append(problems, fmt.Sprintf("duplicate node id %s", n.ID))
		}
		ids[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(edges))
	pairs := make(map[[2]string]string, len(edges))
	for i, e := range edges {
		if e.ID == "" {
			problems = append(problems, fmt.Sprintf("edge %d has no id", i))
		} else if edgeIDs[e.ID] {
			problems = append(problems, fmt.Sprintf("duplicate edge id %s", e.ID))
		}
		edgeIDs[e.ID] = true

		if !ids[e.Source] {
			problems = append(problems, fmt.Sprintf("edge %s references unknown node %q", e.ID, e.Source))
		}
		if !ids[e.Target] {
			problems = append(problems, fmt.Sprintf("edge %s references unknown node %q", e.ID, e.Target))
		}
		if e.Source == e.Target {
			problems = append(problems, fmt.Sprintf("edge %s is a self loop", e.ID))
		}
		if e.Weight <= 0 {
			problems = append(problems, fmt.Sprintf("edge %s has non-positive weight %d", e.ID, e.Weight))
		}

		key := pairKey(e.Source, e.Target)
		if prev, ok := pairs[key]; ok {
			problems = append(problems, fmt.Sprintf("edges %s and %s connect the same nodes", prev, e.ID))
		} else {
			pairs[key] = e.ID
		}
	}

	if len(problems) > 0 {
		return &apperrors.InvalidGraphError{Problems: problems}
	}
	return nil
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
