package cache

import (
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// SearchFunc computes a fresh result for a query that missed the cache.
type SearchFunc func(query string) map[string][]int

// QueryCache memoizes Search results keyed by the raw query string. It
// collapses concurrent identical queries into a single computation via
// singleflight, exactly as the query cache it is grounded on collapses
// concurrent cache misses before they all hit the backing store.
type QueryCache struct {
	enabled bool
	lru     *LRU[string, map[string][]int]
	group   singleflight.Group
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a QueryCache with the given capacity. enabled=false makes
// GetOrCompute always recompute, bypassing memoization entirely.
func New(capacity int, enabled bool) *QueryCache {
	return &QueryCache{
		enabled: enabled,
		lru:     NewLRU[string, map[string][]int](capacity),
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// GetOrCompute returns the cached result for query if present, otherwise
// runs compute exactly once even under concurrent identical callers, caches
// the result, and returns it.
func (c *QueryCache) GetOrCompute(query string, compute SearchFunc) map[string][]int {
	if !c.enabled {
		return compute(query)
	}
	if result, ok := c.lru.Get(query); ok {
		c.hits.Add(1)
		return result
	}
	val, _, _ := c.group.Do(query, func() (any, error) {
		if result, ok := c.lru.Get(query); ok {
			return result, nil
		}
		result := compute(query)
		c.lru.Set(query, result)
		return result, nil
	})
	c.misses.Add(1)
	return val.(map[string][]int)
}

// InvalidateAll drops every cached query result. Called after any
// successful source registration, since a new source can change the answer
// to any prior query.
func (c *QueryCache) InvalidateAll() {
	c.lru.Clear()
	c.logger.Debug("query cache invalidated")
}

// Stats reports cumulative hit/miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
