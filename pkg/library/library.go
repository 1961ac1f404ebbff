// Package library stores named graphs for later import.
//
// Entries are [graph.GraphData] envelopes keyed by a uuid and unique by
// name: saving under an existing name replaces that entry and keeps its id.
// Every saved envelope passes through [graph.Import], so stored graphs are
// always sanitized.
//
// [MemoryStore] is seeded with the predefined scenarios and serves the CLI
// and tests; [MongoStore] backs a shared server library.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
	"github.com/matzehuels/spantree/pkg/graph"
)

// ErrNotFound is returned for unknown ids and names.
var ErrNotFound = errors.New("graph not found")

// Entry is a stored graph.
type Entry struct {
	ID              string    `json:"id" bson:"_id"`
	graph.GraphData `bson:",inline"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// Summary is the listing view of an entry.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	NodeCount   int       `json:"nodeCount"`
	EdgeCount   int       `json:"edgeCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summary returns the listing view of e. Counts come from the metadata,
// which is all a projected listing query loads.
func (e Entry) Summary() Summary {
	return Summary{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		NodeCount:   e.Metadata.NodeCount,
		EdgeCount:   e.Metadata.EdgeCount,
		UpdatedAt:   e.UpdatedAt,
	}
}

// Graph returns the entry as a builder graph with counters set.
func (e Entry) Graph() *graph.Graph {
	return graph.FromParts(e.Nodes, e.Edges)
}

// Store is a graph library backend.
type Store interface {
	// List returns summaries ordered by name.
	List(ctx context.Context) ([]Summary, error)

	// Get returns the entry with the given id.
	Get(ctx context.Context, id string) (*Entry, error)

	// FindByName returns the entry with the given name, ignoring case.
	FindByName(ctx context.Context, name string) (*Entry, error)

	// Save sanitizes data and stores it, replacing any entry of the same
	// name.
	Save(ctx context.Context, data graph.GraphData) (*Entry, error)

	// Delete removes an entry. Unknown ids return ErrNotFound.
	Delete(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

// now is replaced in tests.
var now = time.Now

// prepare validates the name and sanitizes the graph, returning a new entry
// without an id.
func prepare(data graph.GraphData) (Entry, error) {
	data.Name = strings.TrimSpace(data.Name)
	if err := apperrors.ValidateGraphName(data.Name); err != nil {
		return Entry{}, err
	}
	g, _, err := graph.Import(data)
	if err != nil {
		return Entry{}, fmt.Errorf("save %q: %w", data.Name, err)
	}
	t := now()
	out := graph.Export(g, data.Name, data.Description, t)
	if data.Metadata.Created != "" {
		out.Metadata.Created = data.Metadata.Created
	}
	return Entry{GraphData: out, UpdatedAt: t.UTC()}, nil
}

func newID() string {
	return uuid.NewString()
}
