package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/spantree/pkg/compare"
	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/history"
	"github.com/matzehuels/spantree/pkg/mst"
)

// Panel styles
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			Width(48)
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	minInterval = 50 * time.Millisecond
	maxInterval = 5 * time.Second
)

// tickMsg fires a step for one side; the zero side means "both" in
// synchronized mode and "the only run" in the single-run model.
type tickMsg struct {
	side compare.Side
	gen  int
}

func tickAfter(d time.Duration, side compare.Side, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{side: side, gen: gen} })
}

// =============================================================================
// RunModel - one algorithm, stepped by a timer
// =============================================================================

// RunModel animates a single engine run.
type RunModel struct {
	Nodes    []graph.Node
	Edges    []graph.Edge
	Run      mst.Run
	Interval time.Duration
	Running  bool

	kind mst.Algorithm
	// gen invalidates ticks scheduled before a pause or reset.
	gen      int
	finished []history.Execution
}

// NewRunModel starts kind over the graph, paused.
func NewRunModel(kind mst.Algorithm, nodes []graph.Node, edges []graph.Edge, interval time.Duration) (RunModel, error) {
	run, err := mst.Start(kind, nodes, edges)
	if err != nil {
		return RunModel{}, err
	}
	return RunModel{Nodes: nodes, Edges: edges, Run: run, Interval: interval, kind: kind}, nil
}

func (m RunModel) Init() tea.Cmd {
	return nil
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			if m.Running {
				m.Running = false
				m.gen++
				return m, nil
			}
			if m.Run.Completed() {
				return m, nil
			}
			m.Running = true
			m.gen++
			return m, tickAfter(m.Interval, "", m.gen)
		case "s", "right", "l":
			m.step()
		case "r":
			run, _ := mst.Start(m.kind, m.Nodes, m.Edges)
			m.Run, m.Running = run, false
			m.gen++
		case "+", "=":
			m.Interval = max(m.Interval/2, minInterval)
		case "-":
			m.Interval = min(m.Interval*2, maxInterval)
		}
	case tickMsg:
		if msg.gen != m.gen || !m.Running {
			return m, nil
		}
		m.step()
		if m.Run.Completed() {
			m.Running = false
			return m, nil
		}
		return m, tickAfter(m.Interval, "", m.gen)
	}
	return m, nil
}

// step advances the run and notes it when this step completed it.
func (m *RunModel) step() {
	if m.Run.Completed() {
		return
	}
	m.Run = m.Run.Step(m.Nodes, m.Edges)
	if m.Run.Completed() {
		m.finished = append(m.finished, history.FromRun(m.Run, len(m.Nodes), len(m.Edges), time.Now()))
	}
}

// Executions returns the runs completed in this session, oldest first.
// Resetting and replaying adds one entry per completion.
func (m RunModel) Executions() []history.Execution {
	return m.finished
}

func (m RunModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Run.Kind.Title()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("space start/pause  s step  r reset  +/- speed (%s)  q quit", m.Interval)))
	b.WriteString("\n\n")
	b.WriteString(runPanel(m.Nodes, m.Edges, m.Run, m.Running))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// CompareModel - two algorithms side by side
// =============================================================================

// CompareModel animates a comparison. Synchronized mode uses one shared
// timer; independent mode gives each side its own.
type CompareModel struct {
	Comparison *compare.Comparison
	Intervals  compare.Intervals

	nodes []graph.Node
	edges []graph.Edge
	gen   map[compare.Side]int
	err   string
}

// NewCompareModel wraps an initialized comparison.
func NewCompareModel(c *compare.Comparison, intervals compare.Intervals) CompareModel {
	nodes, edges := c.Graph()
	return CompareModel{
		Comparison: c,
		Intervals:  intervals,
		nodes:      nodes,
		edges:      edges,
		gen:        map[compare.Side]int{},
	}
}

func (m CompareModel) Init() tea.Cmd {
	return nil
}

func (m CompareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	c := m.Comparison

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			if c.Active() {
				c.Pause()
				m.bump(compare.Left, compare.Right, "")
				return m, nil
			}
			c.Start()
			return m, m.schedule(compare.Left, compare.Right)
		case "1", "2":
			if c.Mode() != compare.Independent {
				m.err = "per-side control needs independent mode (press m)"
				return m, nil
			}
			side := compare.Left
			if msg.String() == "2" {
				side = compare.Right
			}
			if c.Snapshot().Side(side).Running {
				c.PauseSide(side)
				m.bump(side)
				return m, nil
			}
			c.StartSide(side)
			return m, m.schedule(side)
		case "s", "right", "l":
			for _, side := range compare.Sides {
				c.Step(ctx, side)
			}
		case "r":
			if err := c.Reset(); err != nil {
				m.err = err.Error()
			}
			m.bump(compare.Left, compare.Right, "")
		case "m":
			next := compare.Independent
			if c.Mode() == compare.Independent {
				next = compare.Synchronized
			}
			if err := c.SetMode(next); err != nil {
				m.err = err.Error()
			}
		}
	case tickMsg:
		if msg.gen != m.gen[msg.side] {
			return m, nil
		}
		if msg.side == "" {
			c.Tick(ctx)
			if c.Active() {
				return m, tickAfter(m.Intervals.Left, "", m.gen[""])
			}
			// A finished side stops both; clear the flags so the mode can change.
			c.Pause()
			return m, nil
		}
		inst := c.Snapshot().Side(msg.side)
		if !inst.Running || inst.Completed() {
			return m, nil
		}
		c.Step(ctx, msg.side)
		if inst := c.Snapshot().Side(msg.side); inst.Running && !inst.Completed() {
			return m, tickAfter(m.Intervals.For(msg.side), msg.side, m.gen[msg.side])
		}
	}
	return m, nil
}

// bump invalidates pending ticks for the given timer keys.
func (m CompareModel) bump(keys ...compare.Side) {
	for _, k := range keys {
		m.gen[k]++
	}
}

// schedule starts timers for sides according to the mode.
func (m CompareModel) schedule(sides ...compare.Side) tea.Cmd {
	if m.Comparison.Mode() == compare.Synchronized {
		m.bump("")
		return tickAfter(m.Intervals.Left, "", m.gen[""])
	}
	cmds := make([]tea.Cmd, 0, len(sides))
	for _, side := range sides {
		m.bump(side)
		cmds = append(cmds, tickAfter(m.Intervals.For(side), side, m.gen[side]))
	}
	return tea.Batch(cmds...)
}

func (m CompareModel) View() string {
	snap := m.Comparison.Snapshot()
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Algorithm Comparison"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s mode", snap.Mode)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("space start/pause  1/2 toggle side  s step  r reset  m mode  q quit"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		runPanel(m.nodes, m.edges, snap.Left.Run, snap.Left.Running),
		" ",
		runPanel(m.nodes, m.edges, snap.Right.Run, snap.Right.Running),
	))
	b.WriteString("\n")
	if res, ok := snap.Result(); ok {
		b.WriteString(resultLine(snap, res))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(StyleWarning.Render(m.err))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Rendering Helpers
// =============================================================================

// runPanel renders one run: status, progress, explanation and edge list.
func runPanel(nodes []graph.Node, edges []graph.Edge, run mst.Run, running bool) string {
	var b strings.Builder
	state := "paused"
	switch {
	case run.Completed():
		state = StyleSuccess.Render("completed")
	case running:
		state = StyleHighlight.Render("running")
	}
	b.WriteString(StyleTitle.Render(run.Kind.Title()) + "  " + state + "\n")
	b.WriteString(fmt.Sprintf("step %s/%d  cost %s\n",
		StyleNumber.Render(fmt.Sprint(run.StepCount())), run.TotalSteps(),
		StyleNumber.Render(fmt.Sprint(run.TotalCost()))))
	b.WriteString(progressBar(len(run.MSTEdges()), max(len(nodes)-1, 1), 30) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(44).Render(run.Explanation()) + "\n\n")
	for _, e := range run.Edges(edges) {
		b.WriteString(fmt.Sprintf("%-20s %s\n", edgeLabel(nodes, e), renderStatus(e.Status)))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func progressBar(done, total, width int) string {
	filled := min(done*width/total, width)
	return StyleSuccess.Render(strings.Repeat("█", filled)) +
		listDimStyle.Render(strings.Repeat("░", width-filled)) +
		StyleDim.Render(fmt.Sprintf(" %d/%d", done, total))
}

func resultLine(snap compare.Snapshot, res compare.Result) string {
	winner := "tie"
	switch res.Winner {
	case compare.WinnerLeft:
		winner = snap.Left.Algorithm.Title()
	case compare.WinnerRight:
		winner = snap.Right.Algorithm.Title()
	}
	return StyleSuccess.Render(iconSuccess) + " winner: " + StyleValue.Render(winner) +
		StyleDim.Render(fmt.Sprintf("  steps %d vs %d  cost %d vs %d",
			res.Steps.Left, res.Steps.Right, res.Cost.Left, res.Cost.Right))
}
