package layout

import (
	"math"

	"github.com/matzehuels/spantree/pkg/graph"
)

// GridLayout fills a ceil(√n)-column grid row by row, centering each node in
// its cell.
func GridLayout(nodes []graph.Node, opts Options) []graph.Node {
	out := make([]graph.Node, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	rows := (len(nodes) + cols - 1) / cols
	cellW := (opts.Width - 2*opts.Padding) / float64(cols)
	cellH := (opts.Height - 2*opts.Padding) / float64(rows)

	for i, n := range nodes {
		row, col := i/cols, i%cols
		n.X = opts.Padding + float64(col)*cellW + cellW/2
		n.Y = opts.Padding + float64(row)*cellH + cellH/2
		out[i] = n
	}
	return out
}
