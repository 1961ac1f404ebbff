// Package layout computes node positions for graph visualization.
//
// Every layout is a pure function of its inputs: it returns a new node slice
// with updated X/Y and never changes ids or names. Circular, grid and
// hierarchical layouts are fully deterministic. The force-directed layout is
// deterministic once every node has a position; unplaced nodes are seeded from
// [Options.Seed].
package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/spantree/pkg/graph"
)

// Type selects a layout algorithm.
type Type string

// Layout types.
const (
	Manual        Type = "manual"
	Circular      Type = "circular"
	Grid          Type = "grid"
	Hierarchical  Type = "hierarchical"
	ForceDirected Type = "force-directed"
)

// Types lists every layout type.
var Types = []Type{Manual, Circular, Grid, Hierarchical, ForceDirected}

// ErrUnknownType is returned for an unrecognized layout name.
var ErrUnknownType = errors.New("unknown layout type")

// ParseType resolves a layout name. "force" is accepted as shorthand.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == "force" {
		return ForceDirected, nil
	}
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Iteration counts for the force-directed simulation.
const (
	DefaultIterations = 100
	// ApplyIterations is used by Apply when Options.Iterations is zero.
	ApplyIterations = 150
)

// Options describes the canvas. Padding is not defaulted: zero means no margin.
type Options struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`

	// Iterations is the force-directed simulation length.
	Iterations int `json:"iterations,omitempty"`
	// Seed drives initial positions for unplaced nodes in the force layout.
	Seed int64 `json:"seed,omitempty"`
}

// DefaultOptions returns the interactive canvas: 600x400 with 50px padding.
func DefaultOptions() Options {
	return Options{Width: 600, Height: 400, Padding: 50}
}

// Apply positions nodes with the given layout type.
// Manual returns a copy of nodes unchanged.
func Apply(nodes []graph.Node, edges []graph.Edge, t Type, opts Options) ([]graph.Node, error) {
	switch t {
	case Manual, "":
		return append([]graph.Node(nil), nodes...), nil
	case Circular:
		return CircularLayout(nodes, opts), nil
	case Grid:
		return GridLayout(nodes, opts), nil
	case Hierarchical:
		return HierarchicalLayout(nodes, edges, opts), nil
	case ForceDirected:
		if opts.Iterations == 0 {
			opts.Iterations = ApplyIterations
		}
		return ForceDirectedLayout(nodes, edges, opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

func center(opts Options) (float64, float64) {
	return opts.Width / 2, opts.Height / 2
}
