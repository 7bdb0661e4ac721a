// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

/*
Package cache provides a thread-safe in-memory cache with TTL support.

# Use Cases

The backup manager caches the description of each snapshot directory
(metadata plus total size). Snapshots are immutable once written, so the
expensive directory walk that measures one only has to happen once per TTL.
Entries are deleted explicitly when a snapshot is pruned or its name is
reused.

# Usage

	c := cache.New[backup.SnapshotInfo](10 * time.Minute)
	if info, ok := c.Get(name); ok {
	    return info
	}
	info := describe(name)
	c.Set(name, info)

# Expiration

Expired entries are dropped lazily: Get treats them as misses, and Set sweeps
the whole map at most once per cleanup interval. There is no background
goroutine, so a Cache needs no Close.

# Statistics

GetStats and HitRate report hits, misses and evictions. The backup manager
publishes them as Prometheus gauges after every listing.
*/
package cache
