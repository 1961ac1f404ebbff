package graph

import (
	"encoding/json"
	"math"
)

// =============================================================================
// Edge Status
// =============================================================================

// EdgeStatus is the visualization state of an edge during an MST run.
type EdgeStatus string

// Edge statuses.
const (
	StatusPending     EdgeStatus = "pending"
	StatusConsidering EdgeStatus = "considering"
	StatusAccepted    EdgeStatus = "accepted"
	StatusRejected    EdgeStatus = "rejected"
)

// Terminal reports whether s is a final verdict (accepted or rejected).
func (s EdgeStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Valid reports whether s is one of the known statuses.
func (s EdgeStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConsidering, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// =============================================================================
// Node
// =============================================================================

// Node is a named vertex. Identity is ID; X and Y are layout coordinates.
type Node struct {
	ID   string  `json:"id" bson:"id"`
	Name string  `json:"name" bson:"name"`
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
}

// Unplaced returns a node with no position. Layouts that need a starting
// position (force-directed) seed one for it.
func Unplaced(id, name string) Node {
	return Node{ID: id, Name: name, X: math.NaN(), Y: math.NaN()}
}

// HasPosition reports whether both coordinates are set.
func (n Node) HasPosition() bool {
	return !math.IsNaN(n.X) && !math.IsNaN(n.Y)
}

// DisplayName returns the name if set, otherwise the ID.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

type nodeJSON struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
}

// MarshalJSON writes missing coordinates as null.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{ID: n.ID, Name: n.Name}
	if !math.IsNaN(n.X) {
		out.X = &n.X
	}
	if !math.IsNaN(n.Y) {
		out.Y = &n.Y
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null or absent coordinates as NaN.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*n = Node{ID: in.ID, Name: in.Name, X: math.NaN(), Y: math.NaN()}
	if in.X != nil {
		n.X = *in.X
	}
	if in.Y != nil {
		n.Y = *in.Y
	}
	return nil
}

// =============================================================================
// Edge
// =============================================================================

// Edge is an undirected weighted connection. Source/Target order carries no
// meaning beyond the hierarchical layout, which reads it as a direction.
type Edge struct {
	ID     string     `json:"id" bson:"id"`
	Source string     `json:"source" bson:"source"`
	Target string     `json:"target" bson:"target"`
	Weight int        `json:"weight" bson:"weight"`
	Status EdgeStatus `json:"status" bson:"status"`
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint opposite id. The result is undefined when id is
// not an endpoint.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Connects reports whether the edge joins a and b in either orientation.
func (e Edge) Connects(a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}

// WithStatus returns a copy of e carrying status s.
func (e Edge) WithStatus(s EdgeStatus) Edge {
	e.Status = s
	return e
}

// =============================================================================
// Graph
// =============================================================================

// Graph is a node list and an edge list plus the id counters for new elements.
//
// Node order is significant: Prim's engine starts from Nodes[0] and the
// circular and grid layouts place nodes by index.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	NodeCounter int `json:"-" bson:"node_counter"`
	EdgeCounter int `json:"-" bson:"edge_counter"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// FromParts builds a graph from existing slices, deriving the id counters
// from the highest "node-N" and "edge-N" ids present. The slices are copied.
func FromParts(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		Nodes: append([]Node(nil), nodes...),
		Edges: append([]Edge(nil), edges...),
	}
	g.NodeCounter, g.EdgeCounter = nextCounters(g.Nodes, g.Edges)
	return g
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	return &Graph{
		Nodes:       append([]Node(nil), g.Nodes...),
		Edges:       append([]Edge(nil), g.Edges...),
		NodeCounter: g.NodeCounter,
		EdgeCounter: g.EdgeCounter,
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeIDs returns node ids in input order.
func (g *Graph) NodeIDs() []string {
	return NodeIDs(g.Nodes)
}

// NodeIDs returns the ids of nodes in order.
func NodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// NameOf returns the display name for id within nodes, falling back to id
// itself when no node matches.
func NameOf(nodes []Node, id string) string {
	for _, n := range nodes {
		if n.ID == id {
			return n.DisplayName()
		}
	}
	return id
}

// ResetStatus returns a copy of edges with every status set to pending.
func ResetStatus(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.WithStatus(StatusPending)
	}
	return out
}

// TotalWeight sums the weights of edges.
func TotalWeight(edges []Edge) int {
	total := 0
	for _, e := range edges {
		total += e.Weight
	}
	return total
}
