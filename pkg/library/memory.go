package library

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/spantree/pkg/generate"
	"github.com/matzehuels/spantree/pkg/graph"
)

// MemoryStore keeps entries in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// NewSeededMemoryStore returns a store holding the predefined scenarios.
func NewSeededMemoryStore(ctx context.Context) (*MemoryStore, error) {
	m := NewMemoryStore()
	if err := Seed(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Seed saves every predefined scenario into s.
func Seed(ctx context.Context, s Store) error {
	for _, data := range generate.Scenarios() {
		if _, err := s.Save(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) List(context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Summary())
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) FindByName(_ context.Context, name string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.byName(name); ok {
		return &e, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) byName(name string) (Entry, bool) {
	name = strings.TrimSpace(name)
	for _, e := range m.entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}

func (m *MemoryStore) Save(_ context.Context, data graph.GraphData) (*Entry, error) {
	e, err := prepare(data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byName(e.Name); ok {
		e.ID = existing.ID
	} else {
		e.ID = newID()
	}
	m.entries[e.ID] = e
	return &e, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
