package classpath

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dhamidi/fusion/classfile"
)

// Cache memoises the results of another Finder, failures included, for
// its whole lifetime. Concurrent requests for the same name share a single
// lookup. Use one Cache per generation run so that changes on disk are
// seen by the next run.
type Cache struct {
	finder Finder
	group  singleflight.Group

	mu      sync.RWMutex
	results map[string]cached
}

type cached struct {
	class *classfile.ClassFile
	err   error
}

func NewCache(finder Finder) *Cache {
	return &Cache{finder: finder, results: make(map[string]cached)}
}

func (c *Cache) Resolve(name string) (*classfile.ClassFile, error) {
	key := Normalize(name)
	if r, ok := c.lookup(key); ok {
		return r.class, r.err
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		if r, ok := c.lookup(key); ok {
			return r, nil
		}
		class, err := c.finder.Resolve(key)
		r := cached{class: class, err: err}
		c.mu.Lock()
		c.results[key] = r
		c.mu.Unlock()
		return r, nil
	})
	r := v.(cached)
	return r.class, r.err
}

func (c *Cache) lookup(key string) (cached, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[key]
	return r, ok
}

// Len reports how many names have been resolved so far.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
