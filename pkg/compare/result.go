package compare

import "time"

// Winner names the side that finished in fewer steps.
type Winner string

// Possible winners.
const (
	WinnerLeft  Winner = "left"
	WinnerRight Winner = "right"
	WinnerTie   Winner = "tie"
)

// Pair holds one metric for both sides.
type Pair[T any] struct {
	Left  T `json:"left"`
	Right T `json:"right"`
}

// Result compares two completed runs.
type Result struct {
	Winner Winner              `json:"winner"`
	Steps  Pair[int]           `json:"steps"`
	Time   Pair[time.Duration] `json:"time"`
	Cost   Pair[int]           `json:"cost"`
	// Efficiency is total cost per executed step.
	Efficiency Pair[float64] `json:"efficiency"`
}

// Result returns the comparison outcome once both sides have completed.
func (c *Comparison) Result() (Result, bool) {
	return c.Snapshot().Result()
}

// Result computes the outcome from a snapshot. ok is false until both sides
// have completed.
func (s Snapshot) Result() (Result, bool) {
	if !s.Left.Completed() || !s.Right.Completed() {
		return Result{}, false
	}

	r := Result{
		Winner: WinnerTie,
		Steps:  Pair[int]{Left: s.Left.StepCount, Right: s.Right.StepCount},
		Time:   Pair[time.Duration]{Left: s.Left.Elapsed, Right: s.Right.Elapsed},
		Cost:   Pair[int]{Left: s.Left.Run.TotalCost(), Right: s.Right.Run.TotalCost()},
		Efficiency: Pair[float64]{
			Left:  efficiency(s.Left),
			Right: efficiency(s.Right),
		},
	}
	switch {
	case r.Steps.Left < r.Steps.Right:
		r.Winner = WinnerLeft
	case r.Steps.Right < r.Steps.Left:
		r.Winner = WinnerRight
	}
	return r, true
}

func efficiency(i Instance) float64 {
	if i.StepCount == 0 {
		return 0
	}
	return float64(i.Run.TotalCost()) / float64(i.StepCount)
}
