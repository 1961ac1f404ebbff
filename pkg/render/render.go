package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/spantree/pkg/graph"
)

// Format is an output format.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

// Formats lists the supported formats.
var Formats = []Format{FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// ErrUnsupportedFormat is returned for formats outside [Formats].
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Render produces one artifact for nodes and edges in the given format.
func Render(ctx context.Context, nodes []graph.Node, edges []graph.Edge, format Format, opts Options) ([]byte, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	dot := ToDOT(nodes, edges, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return ToPNG(ctx, svg, 2.0)
	default:
		return ToPDF(ctx, svg)
	}
}

// RenderAll renders every requested format, keyed by format name.
func RenderAll(ctx context.Context, nodes []graph.Node, edges []graph.Edge, formats []Format, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := Render(ctx, nodes, edges, f, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[string(f)] = data
	}
	return artifacts, nil
}
