package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/spantree/pkg/compare"
	"github.com/matzehuels/spantree/pkg/generate"
	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func simpleNetwork(t *testing.T) ([]graph.Node, []graph.Edge) {
	t.Helper()
	data, ok := generate.Scenario("simple-network")
	if !ok {
		t.Fatal("simple-network scenario missing")
	}
	return data.Nodes, data.Edges
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestRunModelStepAndReset(t *testing.T) {
	nodes, edges := simpleNetwork(t)
	m, err := NewRunModel(mst.Kruskal, nodes, edges, 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(key("s"))
	m = next.(RunModel)
	if m.Run.StepCount() != 1 {
		t.Fatalf("after s: step = %d, want 1", m.Run.StepCount())
	}

	next, _ = m.Update(key("r"))
	m = next.(RunModel)
	if m.Run.StepCount() != 0 || m.Running {
		t.Errorf("after r: step = %d running = %v", m.Run.StepCount(), m.Running)
	}

	if !strings.Contains(m.View(), "Kruskal") {
		t.Error("view should show the algorithm title")
	}
}

func TestRunModelTicksUntilComplete(t *testing.T) {
	nodes, edges := simpleNetwork(t)
	m, err := NewRunModel(mst.Prim, nodes, edges, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(key(" "))
	m = next.(RunModel)
	if !m.Running || cmd == nil {
		t.Fatal("space should start the run and schedule a tick")
	}

	for i := 0; i < 50 && !m.Run.Completed(); i++ {
		next, _ = m.Update(tickMsg{gen: m.gen})
		m = next.(RunModel)
	}
	if !m.Run.Completed() || m.Running {
		t.Errorf("run should complete and stop: completed=%v running=%v", m.Run.Completed(), m.Running)
	}
	if m.Run.TotalCost() != 30 {
		t.Errorf("cost = %d, want 30", m.Run.TotalCost())
	}
}

func TestRunModelIgnoresStaleTicks(t *testing.T) {
	nodes, edges := simpleNetwork(t)
	m, _ := NewRunModel(mst.Kruskal, nodes, edges, time.Millisecond)

	next, _ := m.Update(key(" "))
	m = next.(RunModel)
	stale := m.gen
	next, _ = m.Update(key(" ")) // pause
	m = next.(RunModel)

	next, cmd := m.Update(tickMsg{gen: stale})
	m = next.(RunModel)
	if m.Run.StepCount() != 0 || cmd != nil {
		t.Errorf("stale tick advanced the run to step %d", m.Run.StepCount())
	}
}

func TestRunModelSpeedAndQuit(t *testing.T) {
	nodes, edges := simpleNetwork(t)
	m, _ := NewRunModel(mst.Kruskal, nodes, edges, 100*time.Millisecond)

	next, _ := m.Update(key("+"))
	m = next.(RunModel)
	if m.Interval != 50*time.Millisecond {
		t.Errorf("+ interval = %s, want 50ms", m.Interval)
	}
	next, _ = m.Update(key("+"))
	m = next.(RunModel)
	if m.Interval != minInterval {
		t.Errorf("interval should clamp at %s, got %s", minInterval, m.Interval)
	}

	_, cmd := m.Update(key("q"))
	if !isQuit(cmd) {
		t.Error("q should quit")
	}
}

func newCompareModel(t *testing.T, mode compare.Mode) CompareModel {
	t.Helper()
	nodes, edges := simpleNetwork(t)
	c, err := compare.New(nodes, edges, mst.Kruskal, mst.Prim, mode)
	if err != nil {
		t.Fatal(err)
	}
	return NewCompareModel(c, compare.Every(time.Millisecond))
}

func TestCompareModelSynchronizedTicks(t *testing.T) {
	m := newCompareModel(t, compare.Synchronized)

	next, cmd := m.Update(key(" "))
	m = next.(CompareModel)
	if !m.Comparison.Active() || cmd == nil {
		t.Fatal("space should start both sides")
	}

	for i := 0; i < 50 && m.Comparison.Active(); i++ {
		next, _ = m.Update(tickMsg{gen: m.gen[""]})
		m = next.(CompareModel)
	}
	snap := m.Comparison.Snapshot()
	if snap.Left.StepCount != snap.Right.StepCount {
		t.Errorf("synchronized sides drifted: %d vs %d", snap.Left.StepCount, snap.Right.StepCount)
	}
	if !snap.Left.Completed() && !snap.Right.Completed() {
		t.Error("ticking should stop only once a side completes")
	}
	if snap.Left.Running || snap.Right.Running {
		t.Error("a synchronized stop should pause both sides")
	}
	if err := m.Comparison.SetMode(compare.Independent); err != nil {
		t.Errorf("mode change after a synchronized stop: %v", err)
	}
}

func TestCompareModelIndependentSides(t *testing.T) {
	m := newCompareModel(t, compare.Independent)

	next, _ := m.Update(key("1"))
	m = next.(CompareModel)
	if !m.Comparison.Snapshot().Left.Running || m.Comparison.Snapshot().Right.Running {
		t.Fatal("1 should start only the left side")
	}

	next, _ = m.Update(tickMsg{side: compare.Left, gen: m.gen[compare.Left]})
	m = next.(CompareModel)
	next, _ = m.Update(tickMsg{side: compare.Right, gen: m.gen[compare.Right]})
	m = next.(CompareModel)

	snap := m.Comparison.Snapshot()
	if snap.Left.StepCount != 1 || snap.Right.StepCount != 0 {
		t.Errorf("steps = %d/%d, want 1/0", snap.Left.StepCount, snap.Right.StepCount)
	}
}

func TestCompareModelModeToggle(t *testing.T) {
	m := newCompareModel(t, compare.Synchronized)

	next, _ := m.Update(key("2"))
	m = next.(CompareModel)
	if m.err == "" {
		t.Error("per-side keys should be refused in synchronized mode")
	}

	next, _ = m.Update(key("m"))
	m = next.(CompareModel)
	if m.Comparison.Mode() != compare.Independent {
		t.Fatalf("mode = %s, want independent", m.Comparison.Mode())
	}

	next, _ = m.Update(key(" "))
	m = next.(CompareModel)
	next, _ = m.Update(key("m"))
	m = next.(CompareModel)
	if m.err == "" || m.Comparison.Mode() != compare.Independent {
		t.Error("mode change while running should be refused")
	}
}

func TestCompareModelStepToResult(t *testing.T) {
	m := newCompareModel(t, compare.Synchronized)
	for i := 0; i < 20; i++ {
		next, _ := m.Update(key("s"))
		m = next.(CompareModel)
	}
	if _, ok := m.Comparison.Result(); !ok {
		t.Fatal("manual stepping should finish both sides")
	}
	if !strings.Contains(m.View(), "winner") {
		t.Error("view should show the result once both sides finish")
	}
}

func TestRunModelRecordsCompletions(t *testing.T) {
	nodes, edges := simpleNetwork(t)
	m, err := NewRunModel(mst.Kruskal, nodes, edges, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		for i := 0; i < 20; i++ {
			next, _ := m.Update(key("s"))
			m = next.(RunModel)
		}
		next, _ := m.Update(key("r"))
		m = next.(RunModel)
	}

	got := m.Executions()
	if len(got) != 2 {
		t.Fatalf("executions = %d, want one per completion", len(got))
	}
	for _, e := range got {
		if e.Algorithm != mst.Kruskal || e.Cost != 30 || e.Nodes != len(nodes) {
			t.Errorf("execution = %+v", e)
		}
	}
}
