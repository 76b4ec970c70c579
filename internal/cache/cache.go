// Package cache keeps short-lived computed values in memory.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTL is a typed in-memory cache whose entries expire after a fixed duration.
// A TTL created with a non-positive duration never stores anything.
type TTL[V any] struct {
	ttl time.Duration
	c   *gocache.Cache
}

// New returns a cache whose entries live for ttl. Expired entries are purged
// every two TTLs.
func New[V any](ttl time.Duration) *TTL[V] {
	if ttl <= 0 {
		return &TTL[V]{}
	}
	return &TTL[V]{
		ttl: ttl,
		c:   gocache.New(ttl, 2*ttl),
	}
}

// Get returns the cached value for key.
func (t *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if t.c == nil {
		return zero, false
	}
	v, ok := t.c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

// Set stores v under key for the cache's TTL.
func (t *TTL[V]) Set(key string, v V) {
	if t.c == nil {
		return
	}
	t.c.Set(key, v, t.ttl)
}

// Delete drops the entry for key, if any.
func (t *TTL[V]) Delete(key string) {
	if t.c == nil {
		return
	}
	t.c.Delete(key)
}

// Len reports the number of entries, including expired ones not yet purged.
func (t *TTL[V]) Len() int {
	if t.c == nil {
		return 0
	}
	return t.c.ItemCount()
}
