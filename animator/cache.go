package animator

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ResourceCache maps resource identifiers to resolved resources so controllers
// referencing the same clip share one resource handle. Unlike the cooperative
// runtime this design comes from, Go callers can race, so the cache is guarded
// by a mutex and concurrent loads of the same id are collapsed through
// singleflight.
type ResourceCache struct {
	mu    sync.Mutex
	group singleflight.Group
	refs  map[string]Resource
}

// NewResourceCache creates an empty cache.
func NewResourceCache() *ResourceCache {
	return &ResourceCache{refs: make(map[string]Resource)}
}

// DefaultCache is the process-wide cache shared by controllers that don't
// carry their own.
var DefaultCache = NewResourceCache()

// Resolve returns the cached resource for id, loading and caching it with
// load on a miss. Concurrent misses for the same id run load once.
func (c *ResourceCache) Resolve(id string, load LoadFunc) (Resource, error) {
	if load == nil {
		return nil, fmt.Errorf("cache: nil load func for %q", id)
	}
	if c == nil || id == "" {
		return load(id)
	}
	c.mu.Lock()
	if res, ok := c.refs[id]; ok {
		c.mu.Unlock()
		return res, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(id, func() (any, error) {
		c.mu.Lock()
		if res, ok := c.refs[id]; ok {
			c.mu.Unlock()
			return res, nil
		}
		c.mu.Unlock()
		res, err := load(id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.refs[id] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Resource), nil
}

// Forget drops the cached resource for id, if any. The next Resolve reloads.
func (c *ResourceCache) Forget(id string) {
	if c == nil || id == "" {
		return
	}
	c.mu.Lock()
	delete(c.refs, id)
	c.mu.Unlock()
}

// Len reports how many resources are cached.
func (c *ResourceCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.refs)
}
