package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/booksearch/model"
)

// LRUResultCache implements a simple LRU ResultCache.
type LRUResultCache struct {
	mu        sync.Mutex
	capacity  int
	items     map[Key]*list.Element
	evictList *list.List
	rc        ResourceTracker

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key     Key
	results []model.Result
	size    int64
}

// NewLRUResultCache creates a new LRU cache holding at most capacity entries.
// If rc is provided, it will be used to track memory usage.
func NewLRUResultCache(capacity int, rc ResourceTracker) *LRUResultCache {
	return &LRUResultCache{
		capacity:  max(capacity, 1),
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns cached results.
func (c *LRUResultCache) Get(_ context.Context, key Key) ([]model.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return model.CloneResults(ent.Value.(*entry).results), true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches results.
func (c *LRUResultCache) Set(_ context.Context, key Key, results []model.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}

	size := sizeOf(key, results)
	for c.evictList.Len() >= c.capacity {
		c.removeElement(c.evictList.Back())
	}

	if c.rc != nil {
		// Never block a search on cache admission.
		reserved, err := c.rc.TryAcquireMemory(size)
		if err != nil {
			return
		}
		if reserved < size {
			c.rc.ReleaseMemory(reserved)
			return
		}
	}

	ent := &entry{key: key, results: model.CloneResults(results), size: size}
	c.items[key] = c.evictList.PushFront(ent)
}

// Purge removes every entry.
func (c *LRUResultCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.evictList.Len() > 0 {
		c.removeElement(c.evictList.Back())
	}
}

// Len returns the number of cached entries.
func (c *LRUResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *LRUResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRUResultCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.key)
	if c.rc != nil {
		c.rc.ReleaseMemory(kv.size)
	}
}
