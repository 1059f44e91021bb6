// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package cache

import (
	"sync"
	"time"
)

// entry is a cached value and the time it was written.
type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// TTL is a map with lazy per-entry expiry. There is no size bound and no
// background sweep: an entry older than the TTL is treated as absent and
// removed the next time it is read.
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
	stats   Stats
}

// Stats tracks cache performance.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// Option configures a TTL cache.
type Option func(*ttlOptions)

type ttlOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *ttlOptions) {
		o.now = now
	}
}

// NewTTL creates an empty cache whose entries live for ttl.
//
//	c := cache.NewTTL[string, Record](30 * time.Minute)
//	c.Put(ip, rec)
//	if rec, ok := c.Get(ip); ok {
//	    // fresh
//	}
func NewTTL[K comparable, V any](ttl time.Duration, opts ...Option) *TTL[K, V] {
	o := ttlOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// Get returns the value for key if present and no older than the TTL.
// A stale entry is deleted and reported as absent.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		c.recordMiss(false)
		return zero, false
	}

	if c.now().Sub(e.fetchedAt) > c.ttl {
		c.mu.Lock()
		// Another writer may have refreshed the entry since the read.
		if cur, ok := c.entries[key]; ok && cur.fetchedAt.Equal(e.fetchedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.recordMiss(true)
		return zero, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	return e.value, true
}

// Put writes value for key, stamped with the current time. An existing entry
// is overwritten.
func (c *TTL[K, V]) Put(key K, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Delete removes key.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of live entries. Stale entries that have not been
// read yet are not counted.
func (c *TTL[K, V]) Len() int {
	now := c.now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		if now.Sub(e.fetchedAt) <= c.ttl {
			n++
		}
	}
	return n
}

// Stats returns a snapshot of hit, miss and eviction counts.
func (c *TTL[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *TTL[K, V]) recordMiss(evicted bool) {
	c.mu.Lock()
	c.stats.Misses++
	if evicted {
		c.stats.Evictions++
	}
	c.mu.Unlock()
}
