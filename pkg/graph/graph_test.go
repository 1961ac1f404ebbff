package graph

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
)

func sampleGraph() *Graph {
	g := New()
	a := g.AddNode("A", 100, 100)
	b := g.AddNode("B", 200, 100)
	c := g.AddNode("C", 100, 200)
	d := g.AddNode("D", 200, 200)
	for _, e := range []struct {
		s, t string
		w    int
	}{
		{a.ID, b.ID, 10}, {a.ID, c.ID, 15}, {b.ID, d.ID, 12},
		{c.ID, d.ID, 8}, {a.ID, d.ID, 25}, {b.ID, c.ID, 20},
	} {
		if _, err := g.AddEdge(e.s, e.t, e.w); err != nil {
			panic(err)
		}
	}
	return g
}

func TestBuilder(t *testing.T) {
	g := sampleGraph()

	if len(g.Nodes) != 4 || len(g.Edges) != 6 {
		t.Fatalf("graph = %s, want 4 nodes, 6 edges", g)
	}
	if g.Nodes[3].ID != "node-3" {
		t.Errorf("fourth node id = %s, want node-3", g.Nodes[3].ID)
	}
	if g.Edges[5].ID != "edge-5" || g.Edges[5].Status != StatusPending {
		t.Errorf("last edge = %+v, want edge-5 pending", g.Edges[5])
	}
	if g.NodeCounter != 4 || g.EdgeCounter != 6 {
		t.Errorf("counters = %d/%d, want 4/6", g.NodeCounter, g.EdgeCounter)
	}
}

func TestAddEdgeRejects(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		weight int
		code   apperrors.Code
	}{
		{"SelfLoop", "node-0", "node-0", 5, apperrors.ErrCodeInvalidGraph},
		{"ZeroWeight", "node-0", "node-1", 0, apperrors.ErrCodeInvalidInput},
		{"NegativeWeight", "node-0", "node-1", -3, apperrors.ErrCodeInvalidInput},
		{"UnknownNode", "node-0", "node-9", 5, apperrors.ErrCodeGraphNotFound},
		{"Duplicate", "node-0", "node-1", 5, apperrors.ErrCodeInvalidGraph},
		{"ReversedDuplicate", "node-1", "node-0", 5, apperrors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGraph()
			_, err := g.AddEdge(tt.source, tt.target, tt.weight)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
			if len(g.Edges) != 6 || g.EdgeCounter != 6 {
				t.Errorf("graph changed after rejected edge: %s, counter %d", g, g.EdgeCounter)
			}
		})
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := sampleGraph()

	if !g.RemoveNode("node-0") {
		t.Fatal("RemoveNode() = false, want true")
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(g.Nodes))
	}
	for _, e := range g.Edges {
		if e.Touches("node-0") {
			t.Errorf("edge %s still touches removed node", e.ID)
		}
	}
	if len(g.Edges) != 3 {
		t.Errorf("edges = %d, want 3", len(g.Edges))
	}
	if g.RemoveNode("node-0") {
		t.Error("second RemoveNode() = true, want false")
	}

	n := g.AddNode("E", 0, 0)
	if n.ID != "node-4" {
		t.Errorf("new node id = %s, want node-4 (counters never reuse ids)", n.ID)
	}
}

func TestRemoveEdgeAndMove(t *testing.T) {
	g := sampleGraph()

	if !g.RemoveEdge("edge-2") || g.RemoveEdge("edge-2") {
		t.Error("RemoveEdge should succeed once")
	}
	if _, ok := g.FindEdge("node-3", "node-1"); ok {
		t.Error("edge-2 still present")
	}
	if !g.MoveNode("node-2", 7, 9) {
		t.Fatal("MoveNode() = false")
	}
	if n, _ := g.Node("node-2"); n.X != 7 || n.Y != 9 {
		t.Errorf("moved node = (%v, %v), want (7, 9)", n.X, n.Y)
	}
	if g.MoveNode("missing", 0, 0) {
		t.Error("MoveNode(missing) = true")
	}
}

func TestFromPartsCounters(t *testing.T) {
	g := FromParts(
		[]Node{{ID: "node-2"}, {ID: "node-11"}, {ID: "custom"}},
		[]Edge{{ID: "edge-4"}, {ID: "x"}},
	)
	if g.NodeCounter != 12 || g.EdgeCounter != 5 {
		t.Errorf("counters = %d/%d, want 12/5", g.NodeCounter, g.EdgeCounter)
	}

	empty := FromParts(nil, nil)
	if empty.NodeCounter != 0 || empty.EdgeCounter != 0 {
		t.Errorf("empty counters = %d/%d, want 0/0", empty.NodeCounter, empty.EdgeCounter)
	}
}

func TestValidate(t *testing.T) {
	if err := sampleGraph().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	nodes := []Node{{ID: "a"}, {ID: "a"}, {ID: "b"}}
	edges := []Edge{
		{ID: "e1", Source: "a", Target: "ghost", Weight: 1},
		{ID: "e2", Source: "b", Target: "b", Weight: 1},
		{ID: "e3", Source: "a", Target: "b", Weight: 0},
		{ID: "e4", Source: "b", Target: "a", Weight: 2},
	}
	err := Validate(nodes, edges)
	ig, ok := err.(*apperrors.InvalidGraphError)
	if !ok {
		t.Fatalf("Validate() = %T, want *InvalidGraphError", err)
	}
	want := []string{"duplicate node id a", "unknown node", "self loop", "non-positive weight", "connect the same nodes"}
	joined := strings.Join(ig.Problems, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("problems missing %q:\n%s", w, joined)
		}
	}
}

func TestNodeJSONPositions(t *testing.T) {
	data, err := json.Marshal([]Node{{ID: "a", Name: "A", X: 1, Y: 2}, Unplaced("b", "B")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"id":"a","name":"A","x":1,"y":2},{"id":"b","name":"B","x":null,"y":null}]`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	var n Node
	if err := json.Unmarshal([]byte(`{"id":"c","name":"C","x":5}`), &n); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if n.X != 5 || !math.IsNaN(n.Y) || n.HasPosition() {
		t.Errorf("node = %+v, want x=5 and y unset", n)
	}
}

func TestExportImport(t *testing.T) {
	g := sampleGraph()
	g.Edges[0].Status = StatusAccepted

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data := Export(g, "Simple Network", "four cities", now)

	if data.Metadata.Version != FormatVersion || data.Metadata.Created != "2024-03-01T12:00:00Z" {
		t.Errorf("metadata = %+v", data.Metadata)
	}
	if data.Metadata.NodeCount != 4 || data.Metadata.EdgeCount != 6 {
		t.Errorf("counts = %d/%d, want 4/6", data.Metadata.NodeCount, data.Metadata.EdgeCount)
	}
	if data.Edges[0].Status != StatusPending {
		t.Errorf("exported status = %s, want pending", data.Edges[0].Status)
	}
	if g.Edges[0].Status != StatusAccepted {
		t.Error("Export mutated the source graph")
	}

	data.Nodes = append(data.Nodes, Node{ID: "node-9", Name: ""}, Unplaced("node-10", "Nowhere"))
	data.Edges = append(data.Edges,
		Edge{ID: "edge-20", Source: "node-0", Target: "node-9", Weight: 3},
		Edge{ID: "edge-21", Source: "node-0", Target: "node-2", Weight: 0},
		Edge{ID: "", Source: "node-0", Target: "node-2", Weight: 4},
		Edge{ID: "edge-7", Source: "node-1", Target: "node-2", Weight: 4, Status: StatusRejected},
	)

	got, report, err := Import(data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.DroppedNodes != 2 || report.DroppedEdges != 3 {
		t.Errorf("report = %+v, want 2 nodes, 3 edges dropped", report)
	}
	if len(got.Nodes) != 4 || len(got.Edges) != 7 {
		t.Errorf("imported %s, want 4 nodes, 7 edges", got)
	}
	for _, e := range got.Edges {
		if e.Status != StatusPending {
			t.Errorf("edge %s status = %s, want pending", e.ID, e.Status)
		}
	}
	if got.NodeCounter != 4 || got.EdgeCounter != 8 {
		t.Errorf("counters = %d/%d, want 4/8", got.NodeCounter, got.EdgeCounter)
	}
}

func TestImportNoValidNodes(t *testing.T) {
	_, _, err := Import(GraphData{Nodes: []Node{{ID: "x"}}})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidGraph) {
		t.Errorf("Import() error = %v, want INVALID_GRAPH", err)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("City Power Grid"); got != "city_power_grid.json" {
		t.Errorf("Filename() = %s", got)
	}
}

func TestReadWriteGraphFile(t *testing.T) {
	g := sampleGraph()
	path := filepath.Join(t.TempDir(), "network.json")

	if err := WriteGraphFile(g, "Simple Network", "", path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(raw, []byte(`"name": "Simple Network"`)) {
		t.Errorf("file missing envelope name:\n%s", raw)
	}

	back, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(back.Nodes) != len(g.Nodes) || len(back.Edges) != len(g.Edges) {
		t.Errorf("read back %s, want %s", back, g)
	}
	if back.Edges[3].Weight != 8 || back.Nodes[2].Name != "C" {
		t.Errorf("content changed: %+v / %+v", back.Edges[3], back.Nodes[2])
	}
}

func TestReadGraphErrors(t *testing.T) {
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, _, err := ReadGraph(strings.NewReader("{not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestComputeStats(t *testing.T) {
	g := sampleGraph()
	mst := []Edge{g.Edges[3], g.Edges[0], g.Edges[2]}

	s := ComputeStats(g.Nodes, g.Edges, mst, 30)

	if s.MaxPossibleEdges != 6 || s.Density != 100 {
		t.Errorf("density = %v of %d, want 100 of 6", s.Density, s.MaxPossibleEdges)
	}
	if s.MinDegree != 3 || s.MaxDegree != 3 || s.AvgDegree != 3 {
		t.Errorf("degrees = %d/%v/%d, want all 3", s.MinDegree, s.AvgDegree, s.MaxDegree)
	}
	if s.MinWeight != 8 || s.MaxWeight != 25 || s.TotalWeight != 90 || s.AvgWeight != 15 {
		t.Errorf("weights = %d/%v/%d total %d", s.MinWeight, s.AvgWeight, s.MaxWeight, s.TotalWeight)
	}
	if !s.Connected || len(s.Components) != 1 {
		t.Errorf("connected = %v, components = %v", s.Connected, s.Components)
	}
	if s.MSTProgress != 100 {
		t.Errorf("MSTProgress = %v, want 100", s.MSTProgress)
	}
	if want := float64(90-30) / 90 * 100; s.CostSaving != want {
		t.Errorf("CostSaving = %v, want %v", s.CostSaving, want)
	}
	if len(s.TopCentral) != 3 || s.TopCentral[0].ID != "node-0" || s.TopCentral[0].Score != 100 {
		t.Errorf("TopCentral = %+v", s.TopCentral)
	}
}

func TestComputeStatsDisconnected(t *testing.T) {
	nodes := []Node{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	edges := []Edge{{ID: "e", Source: "a", Target: "b", Weight: 5}}

	s := ComputeStats(nodes, edges, nil, 0)

	if s.Connected {
		t.Error("Connected = true, want false")
	}
	if len(s.Components) != 2 || s.LargestComponent() != 2 {
		t.Errorf("components = %v", s.Components)
	}
	if s.MinDegree != 1 || s.AvgDegree != 1 {
		t.Errorf("isolated nodes must not count toward degree stats: min %d avg %v", s.MinDegree, s.AvgDegree)
	}
	if s.CostSaving != 0 || s.MSTProgress != 0 {
		t.Errorf("MST stats = %v/%v, want zero", s.CostSaving, s.MSTProgress)
	}
	if s.TopCentral[2].ID != "c" || s.TopCentral[2].Score != 0 {
		t.Errorf("TopCentral = %+v", s.TopCentral)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil, nil, nil, 0)
	if s.Connected || s.Density != 0 || len(s.TopCentral) != 0 {
		t.Errorf("empty stats = %+v", s)
	}
}
