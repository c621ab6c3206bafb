package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a mutex-guarded map with per-entry expiry. Expired entries are
// evicted lazily when they are read; there is no background sweep, so the
// cache can grow with the number of distinct keys seen.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[K]entry[V]

	now func() time.Time // overridable in tests
}

func NewTTL[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Get returns the value for key if present and unexpired. An expired entry is
// removed and reported as absent.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	v, _, ok := c.GetWithTTL(key)
	return v, ok
}

// GetWithTTL is Get plus the time remaining until the entry expires.
func (c *TTLCache[K, V]) GetWithTTL(key K) (V, time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, 0, false
	}
	remaining := e.expiresAt.Sub(c.now())
	if remaining <= 0 {
		delete(c.entries, key)
		return zero, 0, false
	}
	return e.value, remaining, true
}

// Put stores value under key with the cache's configured TTL, overwriting any
// previous entry.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.PutExpiring(key, value, c.ttl)
}

// PutExpiring stores value under key with an explicit TTL.
func (c *TTLCache[K, V]) PutExpiring(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(ttl)}
}

// Delete removes key if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of entries, expired ones included.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
