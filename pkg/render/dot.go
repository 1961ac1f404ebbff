package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/spantree/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Title is drawn above the graph when set.
	Title string

	// HideWeights omits the weight label on edges.
	HideWeights bool

	// Scale converts canvas units to Graphviz points. Zero means 1.
	Scale float64
}

// Style is the DOT attribute set used for one edge status.
type Style struct {
	Color    string
	Width    float64
	Dashed   bool
	FontName string
}

// Styles maps each status to its edge style.
var Styles = map[graph.EdgeStatus]Style{
	graph.StatusPending:     {Color: "#9ca3af", Width: 1.5},
	graph.StatusConsidering: {Color: "#f59e0b", Width: 3},
	graph.StatusAccepted:    {Color: "#16a34a", Width: 4},
	graph.StatusRejected:    {Color: "#dc2626", Width: 1.5, Dashed: true},
}

// StyleFor returns the style of s, falling back to pending.
func StyleFor(s graph.EdgeStatus) Style {
	if st, ok := Styles[s]; ok {
		return st
	}
	return Styles[graph.StatusPending]
}

// ToDOT converts nodes and status-coloured edges to an undirected DOT graph.
func ToDOT(nodes []graph.Node, edges []graph.Edge, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	pinned := allPlaced(nodes)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=line;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n", opts.Title)
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#eff6ff\", color=\"#2563eb\", fontsize=12, width=0.6, fixedsize=true];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", n.DisplayName())}
		if pinned {
			// Graphviz puts the origin bottom-left; canvas y grows downwards.
			attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X*scale, -n.Y*scale))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(e graph.Edge, opts Options) []string {
	st := StyleFor(e.Status)
	attrs := []string{
		fmt.Sprintf("id=%q", e.ID),
		fmt.Sprintf("color=%q", st.Color),
		fmt.Sprintf("penwidth=%.1f", st.Width),
	}
	if !opts.HideWeights {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprint(e.Weight)), fmt.Sprintf("fontcolor=%q", st.Color))
	}
	if st.Dashed {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func allPlaced(nodes []graph.Node) bool {
	for _, n := range nodes {
		if !n.HasPosition() {
			return false
		}
	}
	return len(nodes) > 0
}
