// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Package cache provides the bounded, TTL-based metadata cache that fronts
// the object gateway.
//
// Entries expire after a fixed TTL and the cache never holds more than a
// configured number of entries. When an insert would exceed the bound, the
// entry closest to expiry is evicted, so the most recently refreshed data
// survives pressure.
package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/vitrine-labs/persona-engine/internal/metrics"
)

// Entry is a cached value with its absolute expiry time.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a thread-safe in-memory cache with TTL expiry and a hard size
// bound enforced by earliest-expiry eviction.
//
// Expired entries are removed lazily on access; there is no background
// sweeper. A stale entry that is never read again is displaced by eviction
// once the cache fills.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	expiry     *expiryHeap
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

// New creates a cache with the given TTL and entry bound.
// maxEntries must be positive.
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]Entry),
		expiry:     newExpiryHeap(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a live value by key. An expired entry is deleted on access
// and reported as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss(key)
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; Set may have refreshed the entry.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.ExpiresAt) {
			delete(c.entries, key)
			c.expiry.remove(key)
		}
		c.mu.Unlock()
		c.recordMiss(key)
		return nil, false
	}

	c.recordHit(key)
	return entry.Data, true
}

// Set stores a value under key with the cache's TTL. Overwriting an existing
// key refreshes its expiry. If the insert pushes the cache past its bound,
// the entry with the earliest expiry is evicted.
func (c *Cache) Set(key string, value interface{}) {
	expiresAt := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Data: value, ExpiresAt: expiresAt}
	c.expiry.push(key, expiresAt)

	for len(c.entries) > c.maxEntries {
		oldest := c.expiry.popEarliest()
		if oldest == nil {
			break
		}
		delete(c.entries, oldest.key)
		c.evictions++
		metrics.CacheEvictions.Inc()
	}

	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Invalidate removes a key. It is idempotent and reports whether the key was
// present.
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		return false
	}
	delete(c.entries, key)
	c.expiry.remove(key)
	metrics.CacheEntries.Set(float64(len(c.entries)))
	return true
}

// Len returns the current number of entries, including any not yet lazily
// expired.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CountPrefix returns the number of entries whose key starts with prefix.
// Used for namespace introspection such as counting persona entries.
func (c *Cache) CountPrefix(prefix string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// TTL returns the configured entry time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) recordHit(key string) {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	metrics.CacheHits.WithLabelValues(keyNamespace(key)).Inc()
}

func (c *Cache) recordMiss(key string) {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	metrics.CacheMisses.WithLabelValues(keyNamespace(key)).Inc()
}

// keyNamespace extracts the "persona" from "persona:abc123" for metric
// labels. Keys without a namespace report as "other".
func keyNamespace(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}

// GenerateKey builds a deterministic cache key from a namespace and any
// JSON-serializable parameters. Map keys are sorted during marshaling, so
// equal parameters always produce the same key.
func GenerateKey(namespace string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:invalid", namespace)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", namespace, hash[:8])
}
