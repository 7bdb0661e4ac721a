// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// cleanupInterval is the minimum time between full sweeps.
const cleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe map with per-entry expiration.
type Cache[V any] struct {
	mu          sync.RWMutex
	entries     map[string]entry[V]
	ttl         time.Duration
	lastCleanup time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	// now is replaceable in tests
	now func() time.Time
}

// Stats is a point-in-time copy of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a cache whose entries live for ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries:     make(map[string]entry[V]),
		ttl:         ttl,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		c.misses.Add(1)
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return zero, false
	}

	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key with the cache TTL.
func (c *Cache[V]) Set(key string, value V) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
	if now.Sub(c.lastCleanup) >= cleanupInterval {
		c.cleanupLocked(now)
	}
}

// Delete removes key. Deleting a missing key is a no-op.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.evictions.Add(1)
	}
	c.mu.Unlock()
}

// cleanupLocked must be called with mu held.
func (c *Cache[V]) cleanupLocked(now time.Time) {
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
	}
	c.lastCleanup = now
}

// GetStats returns a copy of the current counters.
func (c *Cache[V]) GetStats() Stats {
	c.mu.RLock()
	total := int64(len(c.entries))
	last := c.lastCleanup
	c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		TotalKeys:   total,
		LastCleanup: last,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache[V]) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}
