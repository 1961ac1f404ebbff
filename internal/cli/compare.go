package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spantree/pkg/compare"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/observability"
)

// compareOpts holds the flags for the compare command.
type compareOpts struct {
	source        graphSource
	left          string
	right         string
	mode          string
	interval      time.Duration
	rightInterval time.Duration
	interactive   bool
	jsonOut       bool
}

// compareCommand creates the compare command, which races two algorithms.
func (c *CLI) compareCommand() *cobra.Command {
	var opts compareOpts

	cmd := &cobra.Command{
		Use:   "compare [graph.json]",
		Short: "Run two MST algorithms side by side",
		Long: `Run two algorithms over the same graph and compare steps, time and cost.

In synchronized mode both sides advance on one shared timer and the
comparison pauses as soon as either side finishes. In independent mode each
side has its own timer and interval. Without --interactive the comparison
runs headless and any side left unfinished is completed before the result
is printed.`,
		Example: `  spantree compare --scenario city-power-grid
  spantree compare graph.json --mode independent --interval 100ms --right-interval 300ms
  spantree compare --template grid-3x3 --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd, args, opts)
		},
	}

	opts.source.addFlags(cmd)
	cmd.Flags().StringVar(&opts.left, "left", "", "left algorithm (default from config)")
	cmd.Flags().StringVar(&opts.right, "right", "", "right algorithm (default from config)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "synchronized or independent (default from config)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "step interval, or left interval in independent mode")
	cmd.Flags().DurationVar(&opts.rightInterval, "right-interval", 0, "right step interval in independent mode")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "animate the comparison in the terminal")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("interactive", "json")

	return cmd
}

func (c *CLI) runCompare(cmd *cobra.Command, args []string, opts compareOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	left, err := mst.ParseAlgorithm(firstNonEmpty(opts.left, cfg.Run.Left))
	if err != nil {
		return err
	}
	right, err := mst.ParseAlgorithm(firstNonEmpty(opts.right, cfg.Run.Right))
	if err != nil {
		return err
	}
	mode, err := compare.ParseMode(firstNonEmpty(opts.mode, cfg.Run.Mode))
	if err != nil {
		return err
	}
	g, err := opts.source.load(args)
	if err != nil {
		return err
	}

	cmp, err := compare.New(g.Nodes, g.Edges, left, right, mode, compare.WithHooks(observability.Engine()))
	if err != nil {
		return err
	}
	intervals := compareIntervals(opts, cfg.Run.Interval.Duration)

	if opts.interactive {
		_, err := tea.NewProgram(NewCompareModel(cmp, intervals), tea.WithContext(ctx)).Run()
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Comparing %s and %s...", left.Title(), right.Title()))
	spinner.Start()
	err = runHeadless(ctx, cmp, intervals, func(side compare.Side, inst compare.Instance) {
		spinner.Update(fmt.Sprintf("%s: step %d/%d", inst.Algorithm.Title(), inst.StepCount, inst.Run.TotalSteps()))
	})
	if err != nil {
		spinner.StopWithError("Comparison cancelled")
		return err
	}
	spinner.StopWithSuccess("Both runs finished")

	snap := cmp.Snapshot()
	res, _ := snap.Result()
	c.Logger.Debug("comparison finished", "mode", mode, "winner", res.Winner)

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Mode   compare.Mode     `json:"mode"`
			Left   compare.Instance `json:"left"`
			Right  compare.Instance `json:"right"`
			Result compare.Result   `json:"result"`
		}{snap.Mode, snap.Left, snap.Right, res})
	}

	if g.Name != "" {
		printInfo("%s", g.Name)
	}
	printComparison(snap, res)
	return nil
}

// compareIntervals resolves flag intervals against the configured default.
func compareIntervals(opts compareOpts, fallback time.Duration) compare.Intervals {
	left := opts.interval
	if left <= 0 {
		left = fallback
	}
	right := opts.rightInterval
	if right <= 0 {
		right = left
	}
	return compare.Intervals{Left: left, Right: right}
}

// runHeadless starts both sides, drives them with real timers and then
// finishes whatever a synchronized stop left incomplete.
func runHeadless(ctx context.Context, cmp *compare.Comparison, intervals compare.Intervals, onTick func(compare.Side, compare.Instance)) error {
	cmp.Start()
	if err := cmp.Run(ctx, intervals, onTick); err != nil {
		return err
	}
	for _, side := range compare.Sides {
		for !cmp.Snapshot().Side(side).Completed() {
			if err := ctx.Err(); err != nil {
				return err
			}
			cmp.Step(ctx, side)
		}
	}
	return nil
}

// printComparison prints both runs and the result table.
func printComparison(snap compare.Snapshot, res compare.Result) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := [][]string{
		{"Steps", fmt.Sprint(res.Steps.Left), fmt.Sprint(res.Steps.Right)},
		{"Time", res.Time.Left.Round(time.Millisecond).String(), res.Time.Right.Round(time.Millisecond).String()},
		{"Cost", fmt.Sprint(res.Cost.Left), fmt.Sprint(res.Cost.Right)},
		{"Cost/step", fmt.Sprintf("%.2f", res.Efficiency.Left), fmt.Sprintf("%.2f", res.Efficiency.Right)},
		{"MST edges", fmt.Sprint(len(snap.Left.Run.MSTEdges())), fmt.Sprint(len(snap.Right.Run.MSTEdges()))},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", snap.Left.Algorithm.Title(), snap.Right.Algorithm.Title()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})

	printNewline()
	fmt.Println(t)
	printNewline()

	switch res.Winner {
	case compare.WinnerLeft:
		printSuccess("%s wins in fewer steps", snap.Left.Algorithm.Title())
	case compare.WinnerRight:
		printSuccess("%s wins in fewer steps", snap.Right.Algorithm.Title())
	default:
		printSuccess("Tie: both finished in %d steps", res.Steps.Left)
	}
	if res.Cost.Left != res.Cost.Right {
		printWarning("Costs differ; at least one run did not span the graph")
	}
}
