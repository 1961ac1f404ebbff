// Package history keeps a bounded log of completed algorithm runs.
//
// Every time a run reaches its completed state the caller records an
// [Execution]: the algorithm, how many steps it took, the wall time since
// the run's start, and the size of the graph. Only the most recent [Limit]
// executions are kept.
//
// A [Recorder] is safe for concurrent use. The CLI persists it between
// invocations with [ReadFile] and [Recorder.WriteFile]; the server keeps
// one in memory.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/spantree/pkg/mst"
)

// Limit is the number of executions a Recorder keeps.
const Limit = 10

// Execution describes one completed run.
type Execution struct {
	Algorithm    mst.Algorithm `json:"algorithm"`
	Steps        int           `json:"steps"`
	Elapsed      time.Duration `json:"elapsed"`
	Nodes        int           `json:"nodes"`
	Edges        int           `json:"edges"`
	Cost         int           `json:"cost"`
	Disconnected bool          `json:"disconnected,omitempty"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// FromRun summarizes a completed run. Elapsed is measured from the run's
// start time to finishedAt.
func FromRun(run mst.Run, nodes, edges int, finishedAt time.Time) Execution {
	elapsed := finishedAt.Sub(run.StartTime())
	if run.StartTime().IsZero() || elapsed < 0 {
		elapsed = 0
	}
	return Execution{
		Algorithm:    run.Kind,
		Steps:        run.StepCount(),
		Elapsed:      elapsed,
		Nodes:        nodes,
		Edges:        edges,
		Cost:         run.TotalCost(),
		Disconnected: run.Disconnected(),
		FinishedAt:   finishedAt,
	}
}

// Recorder holds the most recent executions, oldest first.
type Recorder struct {
	mu      sync.Mutex
	entries []Execution
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Record appends e, dropping the oldest entry beyond Limit.
func (r *Recorder) Record(e Execution) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	if n := len(r.entries); n > Limit {
		r.entries = slices.Clone(r.entries[n-Limit:])
	}
}

// Entries returns a copy of the log, oldest first.
func (r *Recorder) Entries() []Execution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.entries)
}

// Recent returns up to n of the newest entries, oldest first.
func (r *Recorder) Recent(n int) []Execution {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	return slices.Clone(r.entries[len(r.entries)-n:])
}

// Len returns the number of recorded executions.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Clear drops every entry.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// =============================================================================
// Persistence
// =============================================================================

// ReadFile loads a Recorder from path. A missing file yields an empty
// Recorder. Entries beyond Limit are trimmed to the newest.
func ReadFile(path string) (*Recorder, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var entries []Execution
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	r := New()
	for _, e := range entries {
		r.Record(e)
	}
	return r, nil
}

// WriteFile stores the log at path, creating parent directories.
func (r *Recorder) WriteFile(path string) error {
	data, err := json.MarshalIndent(r.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
