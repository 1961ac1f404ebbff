// Package compare drives two MST engine runs side by side.
//
// A [Comparison] owns one [mst.Run] per side and advances them under one of
// two disciplines:
//
//   - [Synchronized]: a tick steps both sides together and only fires while
//     both are running and neither has completed.
//   - [Independent]: each side has its own timer and may complete, pause or
//     reset without affecting the other.
//
// The sides share nothing but the immutable input graph, so each one rebuilds
// its own disjoint-set or frontier from its own state.
package compare

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/observability"
)

// Mode selects the stepping discipline.
type Mode string

// Stepping disciplines.
const (
	Synchronized Mode = "synchronized"
	Independent  Mode = "independent"
)

// ParseMode resolves a mode name. "sync" and "indep" are accepted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "synchronized", "sync", "":
		return Synchronized, nil
	case "independent", "indep":
		return Independent, nil
	}
	return "", fmt.Errorf("unknown comparison mode %q (want synchronized or independent)", s)
}

// Side identifies one half of a comparison.
type Side string

// Comparison sides.
const (
	Left  Side = "left"
	Right Side = "right"
)

// Sides lists both sides in display order.
var Sides = []Side{Left, Right}

// Instance is the public snapshot of one side.
type Instance struct {
	Algorithm mst.Algorithm `json:"algorithm"`
	Run       mst.Run       `json:"run"`
	Running   bool          `json:"running"`
	StepCount int           `json:"step_count"`
	// Elapsed is measured from the last Start to the latest step.
	Elapsed   time.Duration `json:"elapsed"`
	StartedAt time.Time     `json:"started_at"`
}

// Completed reports whether the side's engine has finished.
func (i Instance) Completed() bool { return i.Run.Completed() }

// Progress returns tree edges as a percentage of n-1, capped at 100.
func (i Instance) Progress(nodeCount int) float64 {
	if nodeCount < 2 {
		return 0
	}
	return min(float64(len(i.Run.MSTEdges()))/float64(nodeCount-1)*100, 100)
}

// Snapshot is a consistent copy of a comparison.
type Snapshot struct {
	Mode  Mode     `json:"mode"`
	Left  Instance `json:"left"`
	Right Instance `json:"right"`
}

// Side returns the instance for s.
func (s Snapshot) Side(side Side) Instance {
	if side == Right {
		return s.Right
	}
	return s.Left
}

// =============================================================================
// Comparison
// =============================================================================

// Comparison runs two engines over the same graph. It is safe for concurrent
// use; every method takes the internal lock.
type Comparison struct {
	mu    sync.Mutex
	nodes []graph.Node
	edges []graph.Edge
	mode  Mode
	sides map[Side]*Instance
	clock func() time.Time
	hooks observability.EngineHooks
}

// Option configures a Comparison.
type Option func(*Comparison)

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(clock func() time.Time) Option {
	return func(c *Comparison) { c.clock = clock }
}

// WithHooks sends one event per step to h instead of the global engine hooks.
func WithHooks(h observability.EngineHooks) Option {
	return func(c *Comparison) { c.hooks = h }
}

// New initializes both sides over a private copy of nodes and edges.
func New(nodes []graph.Node, edges []graph.Edge, left, right mst.Algorithm, mode Mode, opts ...Option) (*Comparison, error) {
	c := &Comparison{
		nodes: slices.Clone(nodes),
		edges: slices.Clone(edges),
		mode:  mode,
		sides: make(map[Side]*Instance, 2),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hooks == nil {
		c.hooks = observability.Engine()
	}
	algos := [...]mst.Algorithm{left, right}
	for i, side := range Sides {
		inst, err := c.newInstance(algos[i])
		if err != nil {
			return nil, fmt.Errorf("%s side: %w", side, err)
		}
		c.sides[side] = inst
	}
	return c, nil
}

// Restore rebuilds a comparison from a snapshot taken over the same nodes
// and edges, so that a stored comparison can continue where it stopped.
func Restore(nodes []graph.Node, edges []graph.Edge, snap Snapshot, opts ...Option) (*Comparison, error) {
	mode, err := ParseMode(string(snap.Mode))
	if err != nil {
		return nil, err
	}
	c, err := New(nodes, edges, snap.Left.Algorithm, snap.Right.Algorithm, mode, opts...)
	if err != nil {
		return nil, err
	}
	for _, side := range Sides {
		inst := snap.Side(side)
		if inst.Run.Kind != inst.Algorithm {
			return nil, fmt.Errorf("%s side: run is %q but algorithm is %q", side, inst.Run.Kind, inst.Algorithm)
		}
		c.sides[side] = &inst
	}
	return c, nil
}

func (c *Comparison) newInstance(algo mst.Algorithm) (*Instance, error) {
	run, err := mst.Start(algo, c.nodes, c.edges)
	if err != nil {
		return nil, err
	}
	return &Instance{Algorithm: algo, Run: run, StartedAt: c.clock()}, nil
}

// Mode returns the stepping discipline.
func (c *Comparison) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the stepping discipline. It fails while either side is running.
func (c *Comparison) SetMode(m Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sides[Left].Running || c.sides[Right].Running {
		return fmt.Errorf("cannot change mode while running")
	}
	c.mode = m
	return nil
}

// SetAlgorithm reinitializes one side with a different algorithm.
func (c *Comparison) SetAlgorithm(side Side, algo mst.Algorithm) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sides[side].Running {
		return fmt.Errorf("cannot change the %s algorithm while running", side)
	}
	inst, err := c.newInstance(algo)
	if err != nil {
		return err
	}
	c.sides[side] = inst
	return nil
}

// Start marks both sides running and restarts their clocks. Completed sides
// stay stopped.
func (c *Comparison) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, side := range Sides {
		c.start(side)
	}
}

// StartSide marks one side running.
func (c *Comparison) StartSide(side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start(side)
}

func (c *Comparison) start(side Side) {
	inst := c.sides[side]
	if inst.Completed() {
		return
	}
	inst.Running = true
	inst.StartedAt = c.clock()
}

// Pause stops both sides without discarding their state.
func (c *Comparison) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, side := range Sides {
		c.sides[side].Running = false
	}
}

// PauseSide stops one side.
func (c *Comparison) PauseSide(side Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sides[side].Running = false
}

// Reset discards both runs and reinitializes them with the same algorithms.
// A side that cannot be reinitialized keeps its current run.
func (c *Comparison) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, side := range Sides {
		if err := c.reset(side); err != nil {
			return err
		}
	}
	return nil
}

// ResetSide reinitializes one side.
func (c *Comparison) ResetSide(side Side) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reset(side)
}

func (c *Comparison) reset(side Side) error {
	inst, err := c.newInstance(c.sides[side].Algorithm)
	if err != nil {
		return fmt.Errorf("reset %s side: %w", side, err)
	}
	c.sides[side] = inst
	return nil
}

// Tick performs one timer tick under the current mode and reports which
// sides advanced.
//
// Synchronized: both sides step, and only when both are running and neither
// has completed. Independent: every running, incomplete side steps.
func (c *Comparison) Tick(ctx context.Context) []Side {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case Synchronized:
		l, r := c.sides[Left], c.sides[Right]
		if !l.Running || !r.Running || l.Completed() || r.Completed() {
			return nil
		}
		c.step(ctx, Left)
		c.step(ctx, Right)
		return []Side{Left, Right}
	default:
		var advanced []Side
		for _, side := range Sides {
			if inst := c.sides[side]; inst.Running && !inst.Completed() {
				c.step(ctx, side)
				advanced = append(advanced, side)
			}
		}
		return advanced
	}
}

// Step advances one side by a single engine step regardless of mode or
// running flag, as a manual "step" control does. It reports whether the side
// advanced.
func (c *Comparison) Step(ctx context.Context, side Side) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sides[side].Completed() {
		return false
	}
	c.step(ctx, side)
	return true
}

// step must be called with c.mu held.
func (c *Comparison) step(ctx context.Context, side Side) {
	inst := c.sides[side]
	inst.Run = inst.Run.Step(c.nodes, c.edges)
	inst.StepCount++
	inst.Elapsed = c.clock().Sub(inst.StartedAt)
	if inst.Run.Completed() {
		inst.Running = false
	}
	c.hooks.OnStep(ctx, string(inst.Algorithm), inst.StepCount, inst.Run.Completed())
}

// Active reports whether a future Tick could still advance a side.
func (c *Comparison) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active()
}

func (c *Comparison) active() bool {
	l, r := c.sides[Left], c.sides[Right]
	if c.mode == Synchronized {
		return l.Running && r.Running && !l.Completed() && !r.Completed()
	}
	return (l.Running && !l.Completed()) || (r.Running && !r.Completed())
}

// Snapshot returns a copy of both sides.
func (c *Comparison) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Mode: c.mode, Left: *c.sides[Left], Right: *c.sides[Right]}
}

// Graph returns the nodes and edges the comparison runs on.
func (c *Comparison) Graph() ([]graph.Node, []graph.Edge) {
	return slices.Clone(c.nodes), slices.Clone(c.edges)
}

// =============================================================================
// Timers
// =============================================================================

// Run drives the comparison with real timers until no side can advance or ctx
// is cancelled. Synchronized mode uses one timer for both sides; independent
// mode gives each side its own goroutine and timer, so intervals may differ.
//
// Sides must be started before calling Run. onTick, if non-nil, is called
// after every tick with the sides that advanced.
func (c *Comparison) Run(ctx context.Context, interval Intervals, onTick func(Side, Instance)) error {
	if c.Mode() == Synchronized {
		return c.runTimer(ctx, interval.Left, func() bool {
			advanced := c.Tick(ctx)
			c.notify(advanced, onTick)
			return c.Active()
		})
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(Sides))
	for _, side := range Sides {
		wg.Add(1)
		go func(side Side) {
			defer wg.Done()
			errs <- c.runTimer(ctx, interval.For(side), func() bool {
				if !c.sideActive(side) {
					return false
				}
				if c.Step(ctx, side) {
					c.notify([]Side{side}, onTick)
				}
				return c.sideActive(side)
			})
		}(side)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Comparison) sideActive(side Side) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst := c.sides[side]
	return inst.Running && !inst.Completed()
}

func (c *Comparison) notify(sides []Side, onTick func(Side, Instance)) {
	if onTick == nil || len(sides) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, side := range sides {
		onTick(side, snap.Side(side))
	}
}

// runTimer calls tick every d until tick returns false or ctx is done.
func (c *Comparison) runTimer(ctx context.Context, d time.Duration, tick func() bool) error {
	if d <= 0 {
		d = DefaultInterval
	}
	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if !tick() {
				return nil
			}
		}
	}
}

// DefaultInterval is the step cadence when none is configured.
const DefaultInterval = time.Second

// Intervals holds per-side step cadences. Synchronized mode uses Left.
type Intervals struct {
	Left  time.Duration
	Right time.Duration
}

// Every returns the same interval for both sides.
func Every(d time.Duration) Intervals {
	return Intervals{Left: d, Right: d}
}

// For returns the interval for side.
func (i Intervals) For(side Side) time.Duration {
	if side == Right {
		return i.Right
	}
	return i.Left
}
