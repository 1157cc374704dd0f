// Package stations resolves the nearest active observing station per
// physical parameter. Station networks differ per parameter, so lists are
// cached independently by metobs parameter id.
package stations

import (
	"context"
	"sync"
)

// Station is one observing station in a parameter's network. Supplied by
// the provider; queried, never mutated.
type Station struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Active    bool    `json:"active"`
}

// Source lists all stations monitoring a given metobs parameter.
type Source interface {
	Stations(ctx context.Context, paramID int) ([]Station, error)
}

// Cache is a get-or-populate station list cache keyed by parameter id.
// It is injected into the resolver so tests can substitute a fake and
// verify population-once semantics.
type Cache interface {
	GetOrPopulate(ctx context.Context, paramID int) ([]Station, error)
	Refresh(ctx context.Context, paramID int) error
}

// MemoryCache caches station lists for the lifetime of the process.
// Lists are populated on first use and never invalidated by readers;
// station networks change rarely enough that staleness is acceptable.
type MemoryCache struct {
	mu     sync.RWMutex
	source Source
	lists  map[int][]Station
}

// NewMemoryCache creates an empty cache backed by the given source.
func NewMemoryCache(source Source) *MemoryCache {
	return &MemoryCache{
		source: source,
		lists:  make(map[int][]Station),
	}
}

// GetOrPopulate returns the cached list for the parameter, fetching it
// from the source on a miss. The fetch happens outside the lock, so two
// concurrent first accesses may both fetch; last write wins. This is a
// performance cache, not a correctness-critical structure.
func (c *MemoryCache) GetOrPopulate(ctx context.Context, paramID int) ([]Station, error) {
	c.mu.RLock()
	list, ok := c.lists[paramID]
	c.mu.RUnlock()
	if ok {
		return list, nil
	}

	list, err := c.source.Stations(ctx, paramID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lists[paramID] = list
	c.mu.Unlock()

	return list, nil
}

// Refresh unconditionally re-fetches and overwrites the cached list.
// Used by the warm scheduler; readers never depend on it.
func (c *MemoryCache) Refresh(ctx context.Context, paramID int) error {
	list, err := c.source.Stations(ctx, paramID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.lists[paramID] = list
	c.mu.Unlock()

	return nil
}
