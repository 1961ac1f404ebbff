package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/spantree/pkg/observability"
)

// Instrumented reports hits, misses and writes of an inner cache to
// observability hooks.
type Instrumented struct {
	inner Cache
	hooks observability.CacheHooks
}

// Instrument wraps c. A nil hooks value uses the globally registered hooks at
// call time.
func Instrument(c Cache, hooks observability.CacheHooks) *Instrumented {
	return &Instrumented{inner: c, hooks: hooks}
}

func (c *Instrumented) h() observability.CacheHooks {
	if c.hooks != nil {
		return c.hooks
	}
	return observability.Cache()
}

// Get forwards to the inner cache and reports a hit or miss.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		c.h().OnCacheHit(ctx, KeyType(key))
	} else {
		c.h().OnCacheMiss(ctx, KeyType(key))
	}
	return data, hit, nil
}

// Set forwards to the inner cache and reports the stored size.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	c.h().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// Delete forwards to the inner cache.
func (c *Instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close closes the inner cache.
func (c *Instrumented) Close() error {
	return c.inner.Close()
}

// KeyType returns the entry type a key was built for, looking past any
// scope prefix. Unknown keys report "other".
func KeyType(key string) string {
	for _, seg := range strings.Split(key, ":") {
		switch seg {
		case KeyTypeLayout, KeyTypeTrace, KeyTypeArtifact:
			return seg
		}
	}
	return "other"
}

var _ Cache = (*Instrumented)(nil)
