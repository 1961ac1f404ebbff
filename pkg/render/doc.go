// Package render turns a graph and its edge statuses into pictures.
//
// # Overview
//
// Rendering is a two-step affair. [ToDOT] produces Graphviz DOT source where
// every edge is coloured by its [graph.EdgeStatus]; [RenderSVG] lays the DOT
// out in-process through go-graphviz. [ToPDF] and [ToPNG] convert the SVG
// with the external rsvg-convert tool.
//
//	edges := run.Edges(g.Edges)
//	dot := render.ToDOT(g.Nodes, edges, render.Options{Title: "Kruskal"})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Positions
//
// Nodes that carry coordinates are pinned (pos="x,y!") and the graph is laid
// out with neato, so the picture matches the canvas. When any node is
// unplaced the positions are dropped and neato arranges the graph itself.
//
// # Formats
//
// [Render] dispatches on [Format]: dot, svg, png and pdf.
//
// [graph.EdgeStatus]: github.com/matzehuels/spantree/pkg/graph.EdgeStatus
package render
