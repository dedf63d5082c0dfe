// Package cache provides LRU caching for search results.
//
// # Result Cache
//
// The index is immutable once built, so the result list of an advanced
// search depends only on its mode, query and result limit. Caches key on
// exactly that triple and never need invalidation while the index lives.
//
// Key features:
//   - Entry-count capacity with least-recently-used eviction
//   - Sharded variant with per-shard mutexes for high concurrency
//   - Optional accounting against a resource.Controller memory budget
package cache
