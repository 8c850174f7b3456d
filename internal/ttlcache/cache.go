// Package ttlcache provides an in-memory key/value cache with per-instance expiry.
package ttlcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	timestamp time.Time
}

// Cache stores values for a fixed time-to-live.
// Expired entries are removed the next time they are read.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a cache whose entries expire after ttl.
func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// TTL returns the configured time-to-live.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Set stores value under key, replacing any existing entry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		timestamp: c.now(),
	}
}

// Get returns the value for key if it is not older than the TTL.
// An expired entry is deleted and reported as missing.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	// Write lock: a read may evict.
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.timestamp) > c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Has reports whether key holds a live value. Same eviction behavior as Get.
func (c *Cache[K, V]) Has(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len returns the number of stored entries, including ones that have expired
// but not yet been read.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
