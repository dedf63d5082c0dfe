package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/booksearch/model"
)

func results(n int) []model.Result {
	out := make([]model.Result, n)
	for i := range out {
		out[i] = model.NewPhraseResult(i+1, fmt.Sprintf("excerpt %d", i))
	}
	return out
}

func TestShardedLRUResultCache_BasicOperations(t *testing.T) {
	cache := NewShardedLRUResultCache(1024, nil)

	ctx := context.Background()
	key := Key{Mode: model.ModeAll, Query: "sol", MaxResults: 50}

	cache.Set(ctx, key, results(3))
	got, ok := cache.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 3 || got[2].Page != 3 {
		t.Errorf("got %v, want 3 results", got)
	}

	_, ok = cache.Get(ctx, Key{Mode: model.ModeAll, Query: "sol", MaxResults: 10})
	if ok {
		t.Fatal("expected cache miss for a different limit")
	}
}

func TestShardedLRUResultCache_ShardDistribution(t *testing.T) {
	cache := NewShardedLRUResultCache(16*1024, nil)

	ctx := context.Background()
	for i := range 1000 {
		cache.Set(ctx, Key{Mode: model.ModeWord, Query: fmt.Sprintf("q%d", i), MaxResults: 50}, results(1))
	}

	nonEmptyShards := 0
	for _, s := range cache.ShardStats() {
		if s.Len > 0 {
			nonEmptyShards++
		}
	}

	// With 1000 keys across 16 shards, every shard should be used.
	if nonEmptyShards < numShards {
		t.Errorf("poor shard distribution: only %d shards have items", nonEmptyShards)
	}
	if cache.Len() != 1000 {
		t.Errorf("got %d entries, want 1000", cache.Len())
	}
}

func TestShardedLRUResultCache_Concurrent(t *testing.T) {
	cache := NewShardedLRUResultCache(4096, nil)

	ctx := context.Background()
	data := results(2)

	const numGoroutines = 50
	const numOpsPerGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for g := range numGoroutines {
		go func(goroutineID int) {
			defer wg.Done()
			for i := range numOpsPerGoroutine {
				key := Key{Mode: model.ModeAll, Query: fmt.Sprintf("%d/%d", goroutineID, i), MaxResults: 5}
				cache.Set(ctx, key, data)
				cache.Get(ctx, key)
			}
		}(g)
	}

	wg.Wait()

	hits, misses := cache.Stats()
	total := hits + misses
	if total != numGoroutines*numOpsPerGoroutine {
		t.Errorf("stats mismatch: got %d total, want %d", total, numGoroutines*numOpsPerGoroutine)
	}
}

func TestShardedLRUResultCache_Purge(t *testing.T) {
	cache := NewShardedLRUResultCache(1024, nil)

	ctx := context.Background()
	for i := range 100 {
		cache.Set(ctx, Key{Mode: model.ModeChapter, Query: fmt.Sprint(i)}, results(1))
	}

	cache.Purge()

	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Len())
	}
	if _, ok := cache.Get(ctx, Key{Mode: model.ModeChapter, Query: "1"}); ok {
		t.Error("expected purged entry to be gone")
	}
}

func BenchmarkLRUResultCache_Get(b *testing.B) {
	cache := NewLRUResultCache(1024, nil)
	ctx := context.Background()
	key := Key{Mode: model.ModeAll, Query: "sol", MaxResults: 50}
	cache.Set(ctx, key, results(50))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			cache.Get(ctx, key)
		}
	})
}

func BenchmarkShardedLRUResultCache_Get(b *testing.B) {
	cache := NewShardedLRUResultCache(1024, nil)
	ctx := context.Background()
	key := Key{Mode: model.ModeAll, Query: "sol", MaxResults: 50}
	cache.Set(ctx, key, results(50))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			cache.Get(ctx, key)
		}
	})
}
