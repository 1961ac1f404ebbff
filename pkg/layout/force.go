package layout

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/spantree/pkg/graph"
)

// Force model constants.
const (
	springFactor = 0.5
	attraction   = 0.1
	damping      = 0.85
)

// ForceDirectedLayout runs a spring-electrical simulation for
// opts.Iterations rounds (DefaultIterations when zero).
//
// Each round every node pair repels with k²/d², where
// k = 0.5·√(width·height/n), and every edge pulls its endpoints together with
// (d-k)·0.1. Forces accumulate into velocities that persist across rounds and
// are damped by 0.85 before moving the node. Positions are clamped to
// [padding, dimension-padding].
//
// Nodes without a position start at a random point inside the padded canvas,
// drawn from a source seeded with opts.Seed.
func ForceDirectedLayout(nodes []graph.Node, edges []graph.Edge, opts Options) []graph.Node {
	out := make([]graph.Node, len(nodes))
	copy(out, nodes)
	if len(nodes) == 0 {
		return out
	}

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pos := make([]r2.Vec, len(nodes))
	vel := make([]r2.Vec, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		if n.HasPosition() {
			pos[i] = r2.Vec{X: n.X, Y: n.Y}
			continue
		}
		pos[i] = r2.Vec{
			X: opts.Padding + rng.Float64()*(opts.Width-2*opts.Padding),
			Y: opts.Padding + rng.Float64()*(opts.Height-2*opts.Padding),
		}
	}

	k := math.Sqrt(opts.Width*opts.Height/float64(len(nodes))) * springFactor
	repulsion := k * k

	for iter := 0; iter < iterations; iter++ {
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				delta := r2.Sub(pos[i], pos[j])
				d := distance(delta)
				f := r2.Scale(repulsion/(d*d)/d, delta)
				vel[i] = r2.Add(vel[i], f)
				vel[j] = r2.Sub(vel[j], f)
			}
		}

		for _, e := range edges {
			a, okA := index[e.Source]
			b, okB := index[e.Target]
			if !okA || !okB {
				continue
			}
			delta := r2.Sub(pos[b], pos[a])
			d := distance(delta)
			f := r2.Scale((d-k)*attraction/d, delta)
			vel[a] = r2.Add(vel[a], f)
			vel[b] = r2.Sub(vel[b], f)
		}

		for i := range pos {
			vel[i] = r2.Scale(damping, vel[i])
			p := r2.Add(pos[i], vel[i])
			pos[i] = r2.Vec{
				X: clamp(p.X, opts.Padding, opts.Width-opts.Padding),
				Y: clamp(p.Y, opts.Padding, opts.Height-opts.Padding),
			}
		}
	}

	for i := range out {
		out[i].X, out[i].Y = pos[i].X, pos[i].Y
	}
	return out
}

// distance is |v|, with coincident points treated as 1 apart.
func distance(v r2.Vec) float64 {
	d := r2.Norm(v)
	if d == 0 {
		return 1
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
