// Package apicache implements the in-process TTL cache for upstream API
// responses. Entries expire lazily: an expired entry is evicted on the next
// lookup for its key, never by a background sweep.
package apicache

import (
	"sync"
	"time"
)

type entry struct {
	payload any
	expiry  time.Time
}

// Cache is a thread-safe key/value cache with per-entry TTLs.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithClock constructs a Cache with an injected time source, for tests.
func NewWithClock(now func() time.Time) *Cache {
	c := New()
	if now != nil {
		c.now = now
	}
	return c
}

// Get returns the cached payload for key if present and unexpired.
// An entry is valid through its expiry instant; past it the entry is
// removed and treated as absent.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiry) {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key for the given TTL. A non-positive TTL stores
// an already-expired entry, which the next Get evicts.
func (c *Cache) Set(key string, payload any, ttl time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: payload, expiry: c.now().Add(ttl)}
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
