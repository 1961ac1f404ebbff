package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
	"github.com/matzehuels/spantree/pkg/pipeline"
)

// statsCommand creates the stats command, which summarizes a graph and its
// minimum spanning tree.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		source    graphSource
		algorithm string
		jsonOut   bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "stats [graph.json]",
		Short: "Show graph statistics and estimated algorithm cost",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			algo, err := mst.ParseAlgorithm(firstNonEmpty(algorithm, cfg.Run.Algorithm))
			if err != nil {
				return err
			}
			g, err := source.load(args)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			trace, err := runner.Solve(ctx, g.Graph, pipeline.Options{Algorithm: algo, Logger: c.Logger})
			if err != nil {
				return err
			}
			final := trace[len(trace)-1]
			stats := graph.ComputeStats(g.Nodes, g.Edges, final.MSTEdges(), final.TotalCost())

			complexity := make([]mst.Complexity, len(mst.Algorithms))
			for i, a := range mst.Algorithms {
				complexity[i] = mst.EstimateComplexity(a, stats.NodeCount, stats.EdgeCount)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					graph.Stats
					Algorithm  mst.Algorithm    `json:"algorithm"`
					Complexity []mst.Complexity `json:"complexity"`
				}{stats, algo, complexity})
			}

			if g.Name != "" {
				printInfo("%s", g.Name)
			}
			printGraphStats(g.Nodes, stats)
			printNewline()
			printKeyValue("Algorithm", algo.Title())
			for _, cx := range complexity {
				printKeyValue(cx.Algorithm.Title(), fmt.Sprintf("%s ≈ %.0f operations", cx.Notation, cx.Operations))
			}
			return nil
		},
	}

	source.addFlags(cmd)
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "algorithm used for the MST figures (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print statistics as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func printGraphStats(nodes []graph.Node, s graph.Stats) {
	printKeyValue("Nodes", fmt.Sprint(s.NodeCount))
	printKeyValue("Edges", fmt.Sprintf("%d of %d possible (%.1f%% dense)", s.EdgeCount, s.MaxPossibleEdges, s.Density))
	printKeyValue("Degree", fmt.Sprintf("min %d, avg %.2f, max %d", s.MinDegree, s.AvgDegree, s.MaxDegree))
	if s.EdgeCount > 0 {
		printKeyValue("Weight", fmt.Sprintf("min %d, avg %.2f, max %d, total %d", s.MinWeight, s.AvgWeight, s.MaxWeight, s.TotalWeight))
	}

	connected := "yes"
	if !s.Connected {
		connected = fmt.Sprintf("no (%d components, largest %d)", len(s.Components), s.LargestComponent())
	}
	printKeyValue("Connected", connected)

	if len(s.TopCentral) > 0 {
		names := make([]string, len(s.TopCentral))
		for i, c := range s.TopCentral {
			names[i] = fmt.Sprintf("%s (%d)", graph.NameOf(nodes, c.ID), c.Degree)
		}
		printKeyValue("Most central", strings.Join(names, ", "))
	}

	printKeyValue("MST", fmt.Sprintf("%d edges, cost %d (%.0f%% complete)", s.MSTEdges, s.MSTCost, s.MSTProgress))
	printKeyValue("Saving", fmt.Sprintf("%.1f%% of total weight", s.CostSaving))
}
