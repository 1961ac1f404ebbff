// Package cache stores computed layouts, step traces and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: JSON files under a directory, used by the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] turns content hashes plus the options that affect a result into
// cache keys. Keys start with their type ("layout:", "trace:", "artifact:"),
// which [Instrument] uses to label hit and miss events.
//
//	k := cache.NewDefaultKeyer()
//	key := k.TraceKey(cache.Hash(graphJSON), cache.TraceKeyOpts{Algorithm: "prim"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default lifetimes per entry type. Layouts and traces are pure functions of
// their inputs, so they live long; artifacts depend on renderer versions.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLTrace    = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Key types used as key prefixes and metric labels.
const (
	KeyTypeLayout   = "layout"
	KeyTypeTrace    = "trace"
	KeyTypeArtifact = "artifact"
)

// =============================================================================
// Keyer
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	TraceKey(graphHash string, opts TraceKeyOpts) string
	ArtifactKey(traceHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a computed layout.
type LayoutKeyOpts struct {
	Type       string  `json:"type"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Padding    float64 `json:"padding"`
	Iterations int     `json:"iterations"`
	Seed       int64   `json:"seed"`
}

// TraceKeyOpts are the inputs that change a step trace.
type TraceKeyOpts struct {
	Algorithm string `json:"algorithm"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Step        int    `json:"step"`
	Title       string `json:"title,omitempty"`
	HideWeights bool   `json:"hide_weights,omitempty"`
}

// DefaultKeyer hashes the options together with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey(KeyTypeLayout, graphHash, opts)
}

// TraceKey returns "trace:<sha256>".
func (DefaultKeyer) TraceKey(graphHash string, opts TraceKeyOpts) string {
	return hashKey(KeyTypeTrace, graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(traceHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, traceHash, opts)
}
