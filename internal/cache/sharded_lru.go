package cache

import (
	"context"
	"encoding/binary"
	"hash/maphash"

	"github.com/hupe1980/booksearch/model"
)

const (
	numShards = 16

	// ShardThreshold is the capacity from which New returns a sharded cache.
	ShardThreshold = 256
)

// ShardedLRUResultCache is a sharded LRU cache for high-concurrency workloads.
// It distributes entries across 16 shards to reduce lock contention, so
// eviction order is only least-recently-used within a shard.
type ShardedLRUResultCache struct {
	shards [numShards]*LRUResultCache
	seed   maphash.Seed
}

// NewShardedLRUResultCache creates a new sharded LRU cache.
// The capacity is divided evenly across all shards, rounding up.
func NewShardedLRUResultCache(capacity int, rc ResourceTracker) *ShardedLRUResultCache {
	shardCapacity := max((capacity+numShards-1)/numShards, 1)

	s := &ShardedLRUResultCache{
		seed: maphash.MakeSeed(),
	}

	for i := range numShards {
		s.shards[i] = NewLRUResultCache(shardCapacity, rc)
	}

	return s
}

// shard returns the shard for a given key.
func (s *ShardedLRUResultCache) shard(key Key) *LRUResultCache {
	var h maphash.Hash
	h.SetSeed(s.seed)

	_, _ = h.WriteString(string(key.Mode))
	_ = h.WriteByte(0)
	_, _ = h.WriteString(key.Query)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key.MaxResults))
	_, _ = h.Write(buf[:])

	return s.shards[h.Sum64()%numShards]
}

// Get returns cached results.
func (s *ShardedLRUResultCache) Get(ctx context.Context, key Key) ([]model.Result, bool) {
	return s.shard(key).Get(ctx, key)
}

// Set caches results.
func (s *ShardedLRUResultCache) Set(ctx context.Context, key Key, results []model.Result) {
	s.shard(key).Set(ctx, key, results)
}

// Purge empties all shards.
func (s *ShardedLRUResultCache) Purge() {
	for i := range numShards {
		s.shards[i].Purge()
	}
}

// Len returns the number of entries across all shards.
func (s *ShardedLRUResultCache) Len() int {
	var total int
	for i := range numShards {
		total += s.shards[i].Len()
	}
	return total
}

// Stats returns aggregated hit/miss statistics.
func (s *ShardedLRUResultCache) Stats() (hits, misses int64) {
	for i := range numShards {
		h, m := s.shards[i].Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// shardStats provides per-shard statistics for debugging.
type shardStats struct {
	ShardID int
	Len     int
	Hits    int64
	Misses  int64
}

// ShardStats returns per-shard statistics.
func (s *ShardedLRUResultCache) ShardStats() []shardStats {
	stats := make([]shardStats, numShards)
	for i := range numShards {
		h, m := s.shards[i].Stats()
		stats[i] = shardStats{
			ShardID: i,
			Len:     s.shards[i].Len(),
			Hits:    h,
			Misses:  m,
		}
	}
	return stats
}
