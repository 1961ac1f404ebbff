package layout

import (
	"math"

	"github.com/matzehuels/spantree/pkg/graph"
)

// CircularLayout places node i of n at angle 2πi/n around the canvas center,
// at radius min(width, height)/2 - padding. Node 0 sits at 3 o'clock and the
// angle grows clockwise in screen coordinates.
func CircularLayout(nodes []graph.Node, opts Options) []graph.Node {
	cx, cy := center(opts)
	radius := math.Min(opts.Width, opts.Height)/2 - opts.Padding

	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		angle := float64(i) / float64(len(nodes)) * 2 * math.Pi
		n.X = cx + radius*math.Cos(angle)
		n.Y = cy + radius*math.Sin(angle)
		out[i] = n
	}
	return out
}
