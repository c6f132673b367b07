// Package cache holds the ephemeral URL-to-remote-ID lookup table used to
// resolve deletes without refetching the full bookmark list.
package cache

import "sync"

// IdentityCache maps normalized bookmark URLs to their server-assigned
// record IDs. It is a best-effort optimization, never an authority: entries
// are populated lazily on create/lookup, invalidated on confirmed delete,
// and lost on process exit. On a miss the remote list is the ground truth.
type IdentityCache struct {
	mu  sync.RWMutex
	ids map[string]string
}

// New returns an empty cache.
func New() *IdentityCache {
	return &IdentityCache{ids: make(map[string]string)}
}

// Get returns the remote ID for a normalized URL, if known.
func (c *IdentityCache) Get(normalizedURL string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[normalizedURL]
	return id, ok
}

// Set records the remote ID for a normalized URL.
func (c *IdentityCache) Set(normalizedURL, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[normalizedURL] = id
}

// Remove drops the entry for a normalized URL. Removing an absent entry is
// a no-op.
func (c *IdentityCache) Remove(normalizedURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, normalizedURL)
}

// Len returns the number of cached entries.
func (c *IdentityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}
