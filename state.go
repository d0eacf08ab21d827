package streamline

import (
	"strings"
	"sync"
)

// State is the dispatch state shared by one or more routers: the lock that
// serializes every critical section and the response cache written inside it.
//
// Only one dispatch holds the lock at a time, whatever its path or method.
// The lock is never re-entered, so a handler must not dispatch through a
// router sharing its State.
type State struct {
	mu    sync.Mutex
	cache *Cache
}

// NewState returns a State with an empty cache.
func NewState() *State {
	return &State{cache: newCache()}
}

// Cache returns the response cache.
func (s *State) Cache() *Cache {
	return s.cache
}

// Cache maps a path to the body last returned for it.
// It is unbounded and never evicts. Dispatch only writes it.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func newCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the last body cached for path.
func (c *Cache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	body, ok := c.entries[path]
	return body, ok
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Snapshot returns a copy of the cache contents.
func (c *Cache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for path, body := range c.entries {
		out[path] = body
	}
	return out
}

// set stores a private copy of body, which may alias transport buffers.
func (c *Cache) set(path, body string) {
	body = strings.Clone(body)

	c.mu.Lock()
	c.entries[path] = body
	c.mu.Unlock()
}
