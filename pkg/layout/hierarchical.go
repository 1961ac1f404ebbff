package layout

import (
	"github.com/matzehuels/spantree/pkg/graph"
)

// HierarchicalLayout arranges nodes in BFS levels.
//
// Edges are read as directed source→target for this layout only. Roots are
// nodes without incoming edges; when there are none the layout falls back to
// [CircularLayout]. Nodes unreachable from every root share level 0. Within a
// level nodes keep input order and spread evenly across the width; a level
// with a single node is centered.
func HierarchicalLayout(nodes []graph.Node, edges []graph.Edge, opts Options) []graph.Node {
	incoming := make(map[string]bool, len(edges))
	children := make(map[string][]string)
	for _, e := range edges {
		incoming[e.Target] = true
		children[e.Source] = append(children[e.Source], e.Target)
	}

	levels := make(map[string]int, len(nodes))
	var queue []string
	for _, n := range nodes {
		if !incoming[n.ID] {
			levels[n.ID] = 0
			queue = append(queue, n.ID)
		}
	}
	if len(queue) == 0 {
		return CircularLayout(nodes, opts)
	}

	maxLevel := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		level := levels[id]
		maxLevel = max(maxLevel, level)
		for _, child := range children[id] {
			if _, seen := levels[child]; !seen {
				levels[child] = level + 1
				queue = append(queue, child)
			}
		}
	}

	byLevel := make(map[int][]int)
	for i, n := range nodes {
		l := levels[n.ID]
		byLevel[l] = append(byLevel[l], i)
	}

	levelHeight := (opts.Height - 2*opts.Padding) / float64(max(maxLevel, 1))
	levelWidth := opts.Width - 2*opts.Padding

	out := make([]graph.Node, len(nodes))
	for l, members := range byLevel {
		for idx, i := range members {
			n := nodes[i]
			if len(members) > 1 {
				n.X = opts.Padding + float64(idx)/float64(len(members)-1)*levelWidth
			} else {
				n.X = opts.Width / 2
			}
			n.Y = opts.Padding + float64(l)*levelHeight
			out[i] = n
		}
	}
	return out
}
