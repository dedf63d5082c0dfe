package cache

import (
	"context"

	"github.com/hupe1980/booksearch/model"
)

// Key identifies an advanced search.
type Key struct {
	Mode       model.Mode
	Query      string
	MaxResults int
}

// ResultCache caches advanced search results.
// Implementations store and return deep copies (variant payloads included), so
// callers may modify the results they pass and receive.
type ResultCache interface {
	// Get returns cached results. ok=false if missing.
	Get(ctx context.Context, key Key) (results []model.Result, ok bool)
	// Set caches results, evicting the least recently used entries when full.
	Set(ctx context.Context, key Key, results []model.Result)
	// Purge removes every entry.
	Purge()
	// Len returns the number of cached entries.
	Len() int
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}

// entryOverhead approximates the fixed memory cost of an entry and of each result in it.
const entryOverhead = 128

// sizeOf estimates the memory held by a cached entry.
func sizeOf(key Key, results []model.Result) int64 {
	n := int64(entryOverhead + len(key.Query))
	for _, r := range results {
		n += entryOverhead + int64(len(r.Excerpt))
		if r.WordMatch != nil {
			n += int64(len(r.MatchedTerm))
		}
		if r.ChapterMatch != nil {
			n += int64(len(r.Title))
		}
	}
	return n
}

// New returns a ResultCache holding up to entries results lists.
// Capacities of at least ShardThreshold get a sharded cache.
func New(entries int, rc ResourceTracker) ResultCache {
	if entries >= ShardThreshold {
		return NewShardedLRUResultCache(entries, rc)
	}
	return NewLRUResultCache(entries, rc)
}

// ResourceTracker accounts cached memory against a shared budget.
// *resource.Controller implements it.
type ResourceTracker interface {
	TryAcquireMemory(bytes int64) (int64, error)
	ReleaseMemory(bytes int64)
}
