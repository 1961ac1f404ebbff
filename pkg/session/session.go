// Package session persists server-side comparisons between requests.
//
// A [Session] holds the graph being compared and a [compare.Snapshot] of both
// engine runs. Handlers load a session, rebuild the live comparison with
// [Session.Comparison], step it, and store the new snapshot with
// [Session.Save].
//
// Stores:
//   - [MemoryStore]: single process, used by default and in tests
//   - [RedisStore]: shared between server instances, expiry handled by Redis
//   - [FileStore]: JSON files, for a server that should survive restarts
//     without Redis
//
// Usage:
//
//	sess, err := session.New(g.Nodes, g.Edges, mst.Kruskal, mst.Prim, compare.Synchronized, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/spantree/pkg/compare"
	"github.com/matzehuels/spantree/pkg/graph"
	"github.com/matzehuels/spantree/pkg/mst"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the default session lifetime. Every save extends it.
const DefaultTTL = 2 * time.Hour

// now is replaced in tests.
var now = time.Now

// Session is a stored comparison.
type Session struct {
	ID         string           `json:"id"`
	Nodes      []graph.Node     `json:"nodes"`
	Edges      []graph.Edge     `json:"edges"`
	Comparison compare.Snapshot `json:"comparison"`
	TTL        time.Duration    `json:"ttl"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	ExpiresAt  time.Time        `json:"expires_at"`
}

// New initializes both engines over the graph and wraps them in a session
// with a fresh uuid.
func New(nodes []graph.Node, edges []graph.Edge, left, right mst.Algorithm, mode compare.Mode, ttl time.Duration) (*Session, error) {
	c, err := compare.New(nodes, edges, left, right, mode)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	t := now()
	return &Session{
		ID:         uuid.NewString(),
		Nodes:      nodes,
		Edges:      edges,
		Comparison: c.Snapshot(),
		TTL:        ttl,
		CreatedAt:  t,
		UpdatedAt:  t,
		ExpiresAt:  t.Add(ttl),
	}, nil
}

// IsExpired reports whether the session has outlived its TTL.
func (s *Session) IsExpired() bool {
	return now().After(s.ExpiresAt)
}

// Restore rebuilds the live comparison from the stored snapshot.
func (s *Session) Restore(opts ...compare.Option) (*compare.Comparison, error) {
	c, err := compare.Restore(s.Nodes, s.Edges, s.Comparison, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", s.ID, err)
	}
	return c, nil
}

// Save records the comparison's current snapshot and extends the expiry.
func (s *Session) Save(c *compare.Comparison) {
	t := now()
	s.Comparison = c.Snapshot()
	s.UpdatedAt = t
	s.ExpiresAt = t.Add(s.TTL)
}

// Store persists sessions.
type Store interface {
	// Get returns ErrNotFound for unknown and expired sessions.
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. It may be a no-op for stores with
	// native expiry.
	Cleanup(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// RunCleanup calls store.Cleanup every interval until ctx is done. Errors
// are passed to onErr when it is non-nil.
func RunCleanup(ctx context.Context, store Store, interval time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
