package generate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/matzehuels/spantree/pkg/graph"
)

// Category groups templates for listing.
type Category string

const (
	Basic     Category = "basic"
	Special   Category = "special"
	RealWorld Category = "real-world"
)

// Complexity is a rough difficulty label shown next to a template.
type Complexity string

const (
	Simple  Complexity = "Simple"
	Medium  Complexity = "Medium"
	Complex Complexity = "Complex"
)

// ErrUnknownTemplate is returned by LookupTemplate for an unknown id.
var ErrUnknownTemplate = errors.New("unknown template")

// Template describes a named graph shape.
type Template struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Complexity  Complexity `json:"complexity"`
	UseCase     string     `json:"useCase"`

	build func(*rand.Rand) *graph.Graph
}

// Build constructs the template graph. Templates with random weights draw
// them from rng; fixed templates ignore it.
func (t Template) Build(rng *rand.Rand) *graph.Graph {
	return t.build(rng)
}

var templates = []Template{
	{
		ID:          "star-5",
		Name:        "Star Network",
		Description: "Central hub connected to 5 nodes - common in client-server architectures",
		Category:    Basic,
		Complexity:  Simple,
		UseCase:     "Client-Server, Network Hubs",
		build:       func(rng *rand.Rand) *graph.Graph { return Star("Hub", 5, rng) },
	},
	{
		ID:          "complete-4",
		Name:        "Complete Graph",
		Description: "Every node connected to every other node - fully meshed network",
		Category:    Basic,
		Complexity:  Medium,
		UseCase:     "Redundant Networks, Peer-to-Peer",
		build:       func(rng *rand.Rand) *graph.Graph { return CompleteGraph(4, rng) },
	},
	{
		ID:          "linear-chain",
		Name:        "Linear Chain",
		Description: "Nodes connected in a straight line - simple pipeline topology",
		Category:    Basic,
		Complexity:  Simple,
		UseCase:     "Assembly Lines, Data Pipelines",
		build:       func(rng *rand.Rand) *graph.Graph { return Chain(5, rng) },
	},
	{
		ID:          "binary-tree",
		Name:        "Binary Tree",
		Description: "Hierarchical tree structure with binary branching",
		Category:    Special,
		Complexity:  Medium,
		UseCase:     "Organizational Charts, Decision Trees",
		build:       func(rng *rand.Rand) *graph.Graph { return BinaryTree(3, rng) },
	},
	{
		ID:          "grid-3x3",
		Name:        "Grid Network",
		Description: "3x3 grid with nearest neighbor connections",
		Category:    Special,
		Complexity:  Medium,
		UseCase:     "Mesh Networks, City Streets",
		build:       func(rng *rand.Rand) *graph.Graph { return Grid(3, 3, rng) },
	},
	{
		ID:          "ring-network",
		Name:        "Ring Network",
		Description: "Nodes connected in a circular topology with redundant paths",
		Category:    RealWorld,
		Complexity:  Simple,
		UseCase:     "Token Ring, Backup Networks",
		build:       func(*rand.Rand) *graph.Graph { return ringNetwork() },
	},
	{
		ID:          "power-grid",
		Name:        "Power Grid",
		Description: "Realistic power distribution network with redundancy",
		Category:    RealWorld,
		Complexity:  Complex,
		UseCase:     "Power Distribution, Infrastructure",
		build:       func(*rand.Rand) *graph.Graph { return powerGrid() },
	},
}

// Templates returns all templates in display order.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// TemplatesIn returns the templates of one category. An empty category
// returns all of them.
func TemplatesIn(c Category) []Template {
	if c == "" {
		return Templates()
	}
	var out []Template
	for _, t := range templates {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// LookupTemplate finds a template by id.
func LookupTemplate(id string) (Template, error) {
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
}

// =============================================================================
// Shapes
// =============================================================================

// Star places a center node at (300, 200) with spokes on a radius of 120.
// Spoke weights are in [5, 25).
func Star(center string, spokes int, rng *rand.Rand) *graph.Graph {
	g := graph.New()
	hub := g.AddNode(center, 300, 200)
	for i := 1; i <= spokes; i++ {
		angle := float64(i-1) / float64(spokes) * 2 * math.Pi
		n := g.AddNode(fmt.Sprintf("Node %d", i), 300+120*math.Cos(angle), 200+120*math.Sin(angle))
		mustEdge(g, hub.ID, n.ID, rng.Intn(20)+5)
	}
	return g
}

// CompleteGraph connects n nodes on a circle of radius 100 pairwise.
// Weights are in [10, 40).
func CompleteGraph(n int, rng *rand.Rand) *graph.Graph {
	g := graph.New()
	for i := range n {
		angle := float64(i) / float64(n) * 2 * math.Pi
		g.AddNode(fmt.Sprintf("N%d", i+1), 300+100*math.Cos(angle), 200+100*math.Sin(angle))
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			mustEdge(g, g.Nodes[i].ID, g.Nodes[j].ID, rng.Intn(30)+10)
		}
	}
	return g
}

// Chain lays n nodes on a horizontal line from x=50 to x=550.
// Weights are in [8, 33).
func Chain(n int, rng *rand.Rand) *graph.Graph {
	g := graph.New()
	spacing := 0.0
	if n > 1 {
		spacing = 500 / float64(n-1)
	}
	for i := range n {
		g.AddNode(fmt.Sprintf("Node %d", i+1), 50+float64(i)*spacing, 200)
		if i > 0 {
			mustEdge(g, g.Nodes[i-1].ID, g.Nodes[i].ID, rng.Intn(25)+8)
		}
	}
	return g
}

// BinaryTree builds a complete binary tree with the given number of levels.
// Node k's parent is node (k-1)/2. Weights are in [5, 25).
func BinaryTree(levels int, rng *rand.Rand) *graph.Graph {
	g := graph.New()
	for level := range levels {
		width := 1 << level
		spacing := 400 / float64(width+1)
		y := 100 + float64(level)*80
		for i := range width {
			n := g.AddNode(fmt.Sprintf("L%dN%d", level, i+1), 100+float64(i+1)*spacing, y)
			if level > 0 {
				k := len(g.Nodes) - 1
				mustEdge(g, g.Nodes[(k-1)/2].ID, n.ID, rng.Intn(20)+5)
			}
		}
	}
	return g
}

// Grid builds a rows x cols lattice in a 400x300 box offset by 100, joining
// each cell to its right and lower neighbour. Weights are in [5, 20).
func Grid(rows, cols int, rng *rand.Rand) *graph.Graph {
	g := graph.New()
	if rows <= 0 || cols <= 0 {
		return g
	}
	cw, ch := 400/float64(cols), 300/float64(rows)
	for r := range rows {
		for c := range cols {
			g.AddNode(fmt.Sprintf("%d,%d", r+1, c+1), 100+float64(c)*cw+cw/2, 100+float64(r)*ch+ch/2)
		}
	}
	for r := range rows {
		for c := range cols {
			cur := r*cols + c
			if c < cols-1 {
				mustEdge(g, g.Nodes[cur].ID, g.Nodes[cur+1].ID, rng.Intn(15)+5)
			}
			if r < rows-1 {
				mustEdge(g, g.Nodes[cur].ID, g.Nodes[cur+cols].ID, rng.Intn(15)+5)
			}
		}
	}
	return g
}

func ringNetwork() *graph.Graph {
	return fixed(
		[]graph.Node{
			{ID: "node-0", Name: "A", X: 300, Y: 120},
			{ID: "node-1", Name: "B", X: 380, Y: 160},
			{ID: "node-2", Name: "C", X: 380, Y: 240},
			{ID: "node-3", Name: "D", X: 300, Y: 280},
			{ID: "node-4", Name: "E", X: 220, Y: 240},
			{ID: "node-5", Name: "F", X: 220, Y: 160},
		},
		[][3]int{{0, 1, 15}, {1, 2, 12}, {2, 3, 18}, {3, 4, 14}, {4, 5, 16}, {5, 0, 13}},
	)
}

func powerGrid() *graph.Graph {
	return fixed(
		[]graph.Node{
			{ID: "node-0", Name: "Plant", X: 300, Y: 100},
			{ID: "node-1", Name: "Sub1", X: 200, Y: 180},
			{ID: "node-2", Name: "Sub2", X: 400, Y: 180},
			{ID: "node-3", Name: "City1", X: 150, Y: 280},
			{ID: "node-4", Name: "City2", X: 300, Y: 280},
			{ID: "node-5", Name: "City3", X: 450, Y: 280},
			{ID: "node-6", Name: "Backup", X: 300, Y: 350},
		},
		[][3]int{
			{0, 1, 25}, {0, 2, 30}, {1, 3, 15}, {1, 4, 20}, {2, 4, 18},
			{2, 5, 22}, {4, 6, 12}, {3, 4, 35}, {4, 5, 28},
		},
	)
}

// fixed builds a graph from literal nodes and {source, target, weight}
// triples indexing into nodes. Edge ids are assigned in order.
func fixed(nodes []graph.Node, edges [][3]int) *graph.Graph {
	es := make([]graph.Edge, len(edges))
	for i, e := range edges {
		es[i] = graph.Edge{
			ID:     fmt.Sprintf("%s%d", graph.EdgeIDPrefix, i),
			Source: nodes[e[0]].ID,
			Target: nodes[e[1]].ID,
			Weight: e[2],
			Status: graph.StatusPending,
		}
	}
	return graph.FromParts(nodes, es)
}

// mustEdge adds an edge the generator knows to be valid.
func mustEdge(g *graph.Graph, src, tgt string, w int) {
	if _, err := g.AddEdge(src, tgt, w); err != nil {
		panic(fmt.Sprintf("generate: %v", err))
	}
}
