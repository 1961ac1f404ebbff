package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to an indented GraphData JSON document.
func MarshalGraph(g *Graph, name, description string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, name, description, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph envelope to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, name, description, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, name, description, f)
}

// WriteGraph writes a graph envelope as JSON to an io.Writer.
func WriteGraph(g *Graph, name, description string, w io.Writer) error {
	return writeGraphTo(g, name, description, w)
}

// ReadGraphFile reads a GraphData JSON file and returns the sanitized graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, _, err := readGraphFrom(f)
	return g, err
}

// ReadGraph decodes a GraphData envelope from r and sanitizes it.
// The envelope is returned alongside the graph for its name and description.
func ReadGraph(r io.Reader) (*Graph, GraphData, error) {
	return readGraphFrom(r)
}

// UnmarshalGraph decodes a GraphData envelope without sanitizing it.
func UnmarshalGraph(data []byte) (GraphData, error) {
	var out GraphData
	if err := json.Unmarshal(data, &out); err != nil {
		return GraphData{}, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, name, description string, w io.Writer) error {
	out := Export(g, name, description, time.Now())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*Graph, GraphData, error) {
	var data GraphData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, GraphData{}, fmt.Errorf("decode: %w", err)
	}
	g, _, err := Import(data)
	if err != nil {
		return nil, data, err
	}
	return g, data, nil
}
