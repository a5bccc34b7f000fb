package require

import (
	"sort"
	"strings"
	"sync"

	"github.com/dghubble/trie"
)

// Cache maps module paths to loaded modules. It is append-only: there is no
// eviction and no invalidation. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	modules *trie.PathTrie
	size    int
}

// NewCache constructs an empty Cache.
func NewCache() *Cache {
	return &Cache{
		modules: trie.NewPathTrie(),
	}
}

// Get returns the module registered at path.
func (c *Cache) Get(path string) (*Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if value := c.modules.Get(path); value != nil {
		return value.(*Module), true
	}
	return nil, false
}

// Put registers m at path. A later Put for the same path wins.
func (c *Cache) Put(path string, m *Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modules.Put(path, m) {
		c.size++
	}
}

// Len returns the number of registered paths. A module reached through a
// directory or package descriptor is counted once per path.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

// Walk calls fn for every registered path equal to prefix or nested below
// it, in lexical path order. An empty prefix visits everything. Walk stops
// at the first error returned by fn.
func (c *Cache) Walk(prefix string, fn func(path string, m *Module) error) error {
	type entry struct {
		path string
		m    *Module
	}
	var entries []entry

	c.mu.RLock()
	c.modules.Walk(func(key string, value interface{}) error {
		if under(key, prefix) {
			entries = append(entries, entry{key, value.(*Module)})
		}
		return nil
	})
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].path < entries[j].path
	})
	for _, e := range entries {
		if err := fn(e.path, e.m); err != nil {
			return err
		}
	}
	return nil
}

func under(path, prefix string) bool {
	if prefix == "" || prefix == "/" || path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
