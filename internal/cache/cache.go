// Package cache memoizes finished translations for the lifetime of the
// process. Entries are never evicted.
package cache

import (
	"sync"
	"sync/atomic"
)

// Key identifies a memoized translation. Source is empty when the caller
// did not name a source language.
type Key struct {
	Text   string
	Source string
	Target string
}

// Stats summarises cache usage.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Cache is a mutex-guarded map safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]string

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]string)}
}

// Get returns the translation stored under key.
func (c *Cache) Get(key Key) (string, bool) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, ok
}

// Put stores value under key. A later Put for the same key wins.
func (c *Cache) Put(key Key, value string) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
