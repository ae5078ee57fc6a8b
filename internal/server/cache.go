package server

import (
	"sync"
	"time"
)

// DefaultCacheEntries bounds the analysis cache when no size is given
const DefaultCacheEntries = 1024

// Observer is notified of cache lookups
type Observer interface {
	CacheHit()
	CacheMiss()
}

type cached[T any] struct {
	result  T
	expires time.Time
}

// Cache memoizes results by canonical request key for a fixed TTL.
// Expired entries are swept on Set at most once per TTL, and when the cache
// is full the entry closest to expiry is dropped.
type Cache[T any] struct {
	mu        sync.Mutex
	entries   map[string]cached[T]
	ttl       time.Duration
	max       int
	nextSweep time.Time
	obs       Observer
	now       func() time.Time
}

// NewCache creates a cache holding at most maxEntries results for ttl each.
// maxEntries <= 0 uses DefaultCacheEntries.
func NewCache[T any](ttl time.Duration, maxEntries int, obs Observer) *Cache[T] {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Cache[T]{
		entries: make(map[string]cached[T]),
		ttl:     ttl,
		max:     maxEntries,
		obs:     obs,
		now:     time.Now,
	}
}

// Get returns the live result stored under key. An expired entry counts as
// a miss and is removed.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.now().After(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if c.obs != nil {
		if ok {
			c.obs.CacheHit()
		} else {
			c.obs.CacheMiss()
		}
	}
	if !ok {
		var zero T
		return zero, false
	}
	return e.result, true
}

// Set stores result under key until the TTL elapses.
func (c *Cache[T]) Set(key string, result T) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !now.Before(c.nextSweep) || len(c.entries) >= c.max {
		c.sweep(now)
	}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		c.evictOldest()
	}
	c.entries[key] = cached[T]{result: result, expires: now.Add(c.ttl)}
}

// Prune drops expired entries and returns how many remain.
func (c *Cache[T]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep(c.now())
	return len(c.entries)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweep must be called with mu held
func (c *Cache[T]) sweep(now time.Time) {
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.nextSweep = now.Add(c.ttl)
}

// evictOldest must be called with mu held
func (c *Cache[T]) evictOldest() {
	var oldest string
	var first time.Time
	for k, e := range c.entries {
		if oldest == "" || e.expires.Before(first) {
			oldest, first = k, e.expires
		}
	}
	delete(c.entries, oldest)
}
