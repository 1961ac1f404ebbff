package generate

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/matzehuels/spantree/pkg/graph"
)

// DefaultRandomNodes is the node count used when none is requested.
const DefaultRandomNodes = 6

var sampleCities = []string{
	"City A", "City B", "City C", "City D",
	"City E", "City F", "City G", "City H",
}

const (
	randomCenterX = 300.0
	randomCenterY = 200.0
	randomRadius  = 150.0
	randomJitter  = 100.0
)

// Random returns a connected graph with n nodes placed on a jittered circle.
//
// Node i is first joined to a random earlier node, which spans the graph.
// Then n/2 extra edges between random pairs are attempted; self loops and
// duplicates are skipped. Weights are in [10, 60).
func Random(n int, rng *rand.Rand) *graph.Graph {
	g := graph.New()
	if n <= 0 {
		return g
	}

	for i := range n {
		name := sampleCities[i%len(sampleCities)]
		if i >= len(sampleCities) {
			name += strconv.Itoa(i)
		}
		angle := float64(i) / float64(n) * 2 * math.Pi
		x := randomCenterX + randomRadius*math.Cos(angle) + (rng.Float64()-0.5)*randomJitter
		y := randomCenterY + randomRadius*math.Sin(angle) + (rng.Float64()-0.5)*randomJitter
		g.AddNode(name, x, y)
	}

	for i := 1; i < n; i++ {
		src := g.Nodes[rng.Intn(i)].ID
		_, _ = g.AddEdge(src, g.Nodes[i].ID, randomWeight(rng))
	}

	extra := n / 2
	for range extra {
		src := g.Nodes[rng.Intn(n)].ID
		tgt := g.Nodes[rng.Intn(n)].ID
		// Self loops and repeats are rejected by the builder.
		_, _ = g.AddEdge(src, tgt, randomWeight(rng))
	}
	return g
}

func randomWeight(rng *rand.Rand) int {
	return rng.Intn(50) + 10
}
