package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spantree/pkg/history"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/pipeline"
)

// runOpts holds the flags for the run command.
type runOpts struct {
	source      graphSource
	algorithm   string
	interactive bool
	interval    time.Duration
	jsonOut     bool
	summary     bool
	noCache     bool
}

// runCommand creates the run command, which steps one algorithm over a graph.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run [graph.json]",
		Short: "Step one MST algorithm through a graph",
		Long: `Run Kruskal's or Prim's algorithm over a graph and print every step.

The graph comes from a GraphData file (or - for stdin) or one of the
generator flags. With --interactive the run is animated in the terminal
and can be paused, stepped and reset.`,
		Example: `  spantree run --scenario simple-network
  spantree run graph.json -a prim --summary
  spantree run --random 8 --seed 3 --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd, args, opts)
		},
	}

	opts.source.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "algorithm: kruskal, prim (default from config)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "animate the run in the terminal")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "step interval for --interactive (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the full step trace as JSON")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print only the final result")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("interactive", "json", "summary")

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, args []string, opts runOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	algo, err := mst.ParseAlgorithm(firstNonEmpty(opts.algorithm, cfg.Run.Algorithm))
	if err != nil {
		return err
	}
	g, err := opts.source.load(args)
	if err != nil {
		return err
	}

	if opts.interactive {
		interval := opts.interval
		if interval <= 0 {
			interval = cfg.Run.Interval.Duration
		}
		return c.runInteractive(ctx, algo, g, interval)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	began := time.Now()
	trace, cached, err := runner.SolveWithCacheInfo(ctx, g.Graph, pipeline.Options{Algorithm: algo, Logger: c.Logger})
	if err != nil {
		return err
	}
	final := trace[len(trace)-1]
	prog.done("solved", "algorithm", algo, "steps", final.StepCount(), "cached", cached)

	finished := time.Now()
	exec := history.FromRun(final, len(g.Nodes), len(g.Edges), finished)
	if cached {
		// A cached trace carries the start time of the run that produced it.
		exec.Elapsed = finished.Sub(began)
	}
	c.recordHistory(exec)

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(trace)
	}

	if g.Name != "" {
		printInfo("%s", g.Name)
	}
	if !opts.summary {
		printTrace(g.Nodes, trace)
	}
	printRunSummary(g.Nodes, final)
	return nil
}

func (c *CLI) runInteractive(ctx context.Context, algo mst.Algorithm, g *loadedGraph, interval time.Duration) error {
	m, err := NewRunModel(algo, g.Nodes, g.Edges, interval)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if fm, ok := final.(RunModel); ok {
		c.recordHistory(fm.Executions()...)
	}
	return err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
