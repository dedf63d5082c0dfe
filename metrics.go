package booksearch

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/booksearch/model"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    searchCounter   *prometheus.CounterVec
//	    searchHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSearch(mode model.Mode, results int, duration time.Duration, err error) {
//	    p.searchCounter.WithLabelValues(string(mode)).Inc()
//	    p.searchHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordBuild is called once, after the index build.
	// segments is the number of pages indexed, err is nil if successful.
	RecordBuild(segments int, duration time.Duration, err error)

	// RecordSearch is called after each search operation.
	// results is the number of results returned, err is nil if successful.
	RecordSearch(mode model.Mode, results int, duration time.Duration, err error)

	// RecordCacheHit is called when an advanced search is served from the result cache.
	RecordCacheHit()

	// RecordCacheMiss is called when an advanced search misses the result cache.
	RecordCacheMiss()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordSearch(model.Mode, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheHit()                                    {}
func (NoopMetricsCollector) RecordCacheMiss()                                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildSegments    atomic.Int64
	BuildTotalNanos  atomic.Int64
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchResults    atomic.Int64
	SearchTotalNanos atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(segments int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildSegments.Add(int64(segments))
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_ model.Mode, results int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchResults.Add(int64(results))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordCacheHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheHit() {
	b.CacheHits.Add(1)
}

// RecordCacheMiss implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheMiss() {
	b.CacheMisses.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:     b.BuildCount.Load(),
		BuildErrors:    b.BuildErrors.Load(),
		BuildSegments:  b.BuildSegments.Load(),
		BuildNanos:     b.BuildTotalNanos.Load(),
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchResults:  b.SearchResults.Load(),
		SearchAvgNanos: b.getAvgSearchNanos(),
		CacheHits:      b.CacheHits.Load(),
		CacheMisses:    b.CacheMisses.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount     int64
	BuildErrors    int64
	BuildSegments  int64
	BuildNanos     int64
	SearchCount    int64
	SearchErrors   int64
	SearchResults  int64
	SearchAvgNanos int64
	CacheHits      int64
	CacheMisses    int64
}
