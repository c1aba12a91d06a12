// Package profiles fetches players' match histories, aggregates them into
// performance profiles and caches the outcome for the lifetime of a session.
package profiles

import (
	"sync"
	"time"

	"github.com/pable/go-lol-titles/internal/model"
)

// Cached is a resolved lookup. Profile is nil when the player's history
// produced no profile or could not be fetched.
type Cached struct {
	Profile   *model.PerformanceProfile
	Records   int
	FetchedAt time.Time
	Err       error
}

// Cache maps player IDs to resolved lookups. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Cached
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Cached)}
}

// Get returns the cached lookup for id and whether it has been resolved.
func (c *Cache) Get(id string) (Cached, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[id]
	return v, ok
}

func (c *Cache) Put(id string, v Cached) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = v
}

// Resolved returns the subset of ids already in the cache, in input order.
func (c *Cache) Resolved(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, id := range ids {
		if _, ok := c.entries[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Missing returns the ids not yet in the cache, in input order, without duplicates.
func (c *Cache) Missing(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := c.entries[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry, e.g. after the client reconnects.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Cached)
}
