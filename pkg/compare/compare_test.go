package compare

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
)

func simpleNetwork() ([]graph.Node, []graph.Edge) {
	nodes := []graph.Node{
		{ID: "A", Name: "A"}, {ID: "B", Name: "B"}, {ID: "C", Name: "C"}, {ID: "D", Name: "D"},
	}
	edges := []graph.Edge{
		{ID: "AB", Source: "A", Target: "B", Weight: 10},
		{ID: "AC", Source: "A", Target: "C", Weight: 15},
		{ID: "BD", Source: "B", Target: "D", Weight: 12},
		{ID: "CD", Source: "C", Target: "D", Weight: 8},
		{ID: "AD", Source: "A", Target: "D", Weight: 25},
		{ID: "BC", Source: "B", Target: "C", Weight: 20},
	}
	return nodes, edges
}

// fakeClock advances one millisecond per reading.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Millisecond)
	return f.now
}

type stepRecorder struct {
	mu        sync.Mutex
	steps     map[string]int
	completed map[string]int
}

func (r *stepRecorder) OnStep(_ context.Context, algorithm string, _ int, completed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[algorithm]++
	if completed {
		r.completed[algorithm]++
	}
}

func newComparison(t *testing.T, left, right mst.Algorithm, mode Mode) (*Comparison, *stepRecorder) {
	t.Helper()
	nodes, edges := simpleNetwork()
	rec := &stepRecorder{steps: map[string]int{}, completed: map[string]int{}}
	clock := &fakeClock{now: time.Unix(0, 0)}
	c, err := New(nodes, edges, left, right, mode, WithClock(clock.Now), WithHooks(rec))
	require.NoError(t, err)
	return c, rec
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	nodes, edges := simpleNetwork()
	_, err := New(nodes, edges, mst.Kruskal, "boruvka", Synchronized)
	assert.ErrorIs(t, err, mst.ErrUnknownAlgorithm)
}

func TestNewReportsLeftSideFirst(t *testing.T) {
	nodes, edges := simpleNetwork()
	for range 20 {
		_, err := New(nodes, edges, "boruvka", "reverse-delete", Synchronized)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "left side")
		assert.Contains(t, err.Error(), "boruvka")
	}
}

func TestResetKeepsRunOnError(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Independent)
	ctx := context.Background()
	c.Step(ctx, Left)

	c.mu.Lock()
	c.sides[Left].Algorithm = "boruvka"
	c.mu.Unlock()

	err := c.ResetSide(Left)
	assert.ErrorIs(t, err, mst.ErrUnknownAlgorithm)
	assert.ErrorIs(t, c.Reset(), mst.ErrUnknownAlgorithm)

	snap := c.Snapshot()
	require.NotNil(t, snap.Left.Run.Kruskal, "failed reset must not drop the run")
	assert.Equal(t, 1, snap.Left.Run.StepCount())
}

func TestTickRequiresRunning(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Synchronized)
	ctx := context.Background()

	assert.Empty(t, c.Tick(ctx), "nothing runs before Start")

	c.StartSide(Left)
	assert.Empty(t, c.Tick(ctx), "synchronized needs both sides running")

	c.StartSide(Right)
	assert.Equal(t, []Side{Left, Right}, c.Tick(ctx))

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Left.StepCount)
	assert.Equal(t, 1, snap.Right.StepCount)
}

func TestSynchronizedStopsWhenEitherCompletes(t *testing.T) {
	nodes, edges := simpleNetwork()
	// Kruskal completes at step 3 here; slow it down with an extra cheap
	// edge that is rejected first so it needs one more step than Prim.
	edges = append(edges, graph.Edge{ID: "AB2", Source: "B", Target: "A", Weight: 11})
	c, err := New(nodes, edges, mst.Kruskal, mst.Prim, Synchronized)
	require.NoError(t, err)
	ctx := context.Background()

	c.Start()
	ticks := 0
	for c.Active() {
		c.Tick(ctx)
		ticks++
	}
	snap := c.Snapshot()
	assert.Equal(t, 3, ticks)
	assert.True(t, snap.Right.Completed(), "prim finishes in three steps")
	assert.False(t, snap.Left.Completed(), "kruskal needs a fourth step")
	assert.False(t, snap.Right.Running, "completion clears the running flag")
	assert.True(t, snap.Left.Running)
	assert.Empty(t, c.Tick(ctx), "no tick once one side is complete")

	_, ok := c.Result()
	assert.False(t, ok)

	// A manual step finishes the remaining side.
	assert.True(t, c.Step(ctx, Left))
	res, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, WinnerRight, res.Winner)
	assert.Equal(t, Pair[int]{Left: 4, Right: 3}, res.Steps)
	assert.Equal(t, Pair[int]{Left: 30, Right: 30}, res.Cost)
}

func TestIndependentSidesAreIsolated(t *testing.T) {
	c, rec := newComparison(t, mst.Kruskal, mst.Kruskal, Independent)
	ctx := context.Background()

	c.StartSide(Left)
	c.Tick(ctx)
	c.Tick(ctx)
	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Left.StepCount)
	assert.Zero(t, snap.Right.StepCount)

	c.StartSide(Right)
	c.Tick(ctx)
	c.PauseSide(Left)
	c.Tick(ctx)
	require.NoError(t, c.ResetSide(Left))

	snap = c.Snapshot()
	assert.Zero(t, snap.Left.StepCount)
	assert.False(t, snap.Left.Running)
	assert.Zero(t, snap.Left.Run.StepCount())
	assert.Equal(t, 2, snap.Right.StepCount)
	assert.Equal(t, 18, snap.Right.Run.TotalCost())
	assert.Equal(t, 5, rec.steps["kruskal"])
}

func TestResultWinnerAndEfficiency(t *testing.T) {
	c, rec := newComparison(t, mst.Kruskal, mst.Prim, Independent)
	ctx := context.Background()

	c.Start()
	for c.Active() {
		c.Tick(ctx)
	}

	res, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, WinnerTie, res.Winner)
	assert.Equal(t, Pair[int]{Left: 3, Right: 3}, res.Steps)
	assert.InDelta(t, 10.0, res.Efficiency.Left, 1e-9)
	assert.InDelta(t, 10.0, res.Efficiency.Right, 1e-9)
	assert.Positive(t, res.Time.Left)
	assert.Equal(t, 1, rec.completed["kruskal"])
	assert.Equal(t, 1, rec.completed["prim"])
}

func TestModeAndAlgorithmChangesWhileRunning(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Synchronized)

	c.Start()
	assert.Error(t, c.SetMode(Independent))
	assert.Error(t, c.SetAlgorithm(Left, mst.Prim))

	c.Pause()
	require.NoError(t, c.SetMode(Independent))
	require.NoError(t, c.SetAlgorithm(Left, mst.Prim))
	assert.Equal(t, Independent, c.Mode())
	assert.Equal(t, mst.Prim, c.Snapshot().Left.Algorithm)
	assert.ErrorIs(t, c.SetAlgorithm(Right, "nope"), mst.ErrUnknownAlgorithm)
}

func TestStartSkipsCompletedSide(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Independent)
	ctx := context.Background()
	for c.Step(ctx, Left) {
	}
	c.Start()
	snap := c.Snapshot()
	assert.False(t, snap.Left.Running)
	assert.True(t, snap.Right.Running)
}

func TestRunSynchronized(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Synchronized)
	c.Start()

	var mu sync.Mutex
	seen := map[Side]int{}
	err := c.Run(context.Background(), Every(time.Millisecond), func(side Side, _ Instance) {
		mu.Lock()
		seen[side]++
		mu.Unlock()
	})
	require.NoError(t, err)

	res, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, 30, res.Cost.Left)
	assert.Equal(t, map[Side]int{Left: 3, Right: 3}, seen)
}

func TestRunIndependent(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Independent)
	c.Start()

	err := c.Run(context.Background(), Intervals{Left: time.Millisecond, Right: 2 * time.Millisecond}, nil)
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.True(t, snap.Left.Completed())
	assert.True(t, snap.Right.Completed())
}

func TestRunCancelled(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Synchronized)
	c.Start()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Run(ctx, Every(time.Hour), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Snapshot().Left.StepCount)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("sync")
	require.NoError(t, err)
	assert.Equal(t, Synchronized, m)
	m, err = ParseMode("independent")
	require.NoError(t, err)
	assert.Equal(t, Independent, m)
	_, err = ParseMode("lockstep")
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Independent)
	c.Step(context.Background(), Left)
	assert.InDelta(t, 100.0/3, c.Snapshot().Left.Progress(4), 1e-9)
	assert.Zero(t, c.Snapshot().Left.Progress(1))
}

func TestRestoreContinuesFromSnapshot(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Independent)
	ctx := context.Background()
	c.Start()
	c.Tick(ctx)
	snap := c.Snapshot()

	nodes, edges := simpleNetwork()
	restored, err := Restore(nodes, edges, snap)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, Independent, restored.Mode())

	restored.Tick(ctx)
	got := restored.Snapshot()
	assert.Equal(t, 2, got.Left.StepCount)
	assert.Equal(t, 2, got.Right.StepCount)
	assert.Equal(t, 1, c.Snapshot().Left.StepCount, "the original is untouched")
}

func TestRestoreRejectsMismatchedRun(t *testing.T) {
	c, _ := newComparison(t, mst.Kruskal, mst.Prim, Synchronized)
	snap := c.Snapshot()
	snap.Left.Algorithm = mst.Prim

	nodes, edges := simpleNetwork()
	_, err := Restore(nodes, edges, snap)
	assert.Error(t, err)

	snap = c.Snapshot()
	snap.Mode = "lockstep"
	_, err = Restore(nodes, edges, snap)
	assert.Error(t, err)
}
