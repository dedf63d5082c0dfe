package booksearch

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/booksearch/internal/excerpt"
	"github.com/hupe1980/booksearch/internal/index"
	"github.com/hupe1980/booksearch/internal/query"
)

type options struct {
	metricsCollector  MetricsCollector
	logger            *Logger
	batchThreshold    int
	batchSize         int
	maxWorkers        int
	memoryLimit       int64
	highlighter       excerpt.Highlighter
	contextWords      int
	defaultMaxResults int
	cacheEntries      int
}

// Option configures an Index.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &booksearch.BasicMetricsCollector{}
//	idx, _ := booksearch.New(book, booksearch.WithMetricsCollector(metrics))
//	// ... search ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := booksearch.NewJSONLogger(slog.LevelInfo)
//	idx, _ := booksearch.New(book, booksearch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithBatchThreshold sets the page count above which the index is built in
// concurrent batches. Smaller books are indexed in a single pass.
//
// Both paths produce identical indexes.
func WithBatchThreshold(pages int) Option {
	return func(o *options) {
		o.batchThreshold = pages
	}
}

// WithBatchSize sets the number of pages per build batch.
// Defaults to the batch threshold.
func WithBatchSize(pages int) Option {
	return func(o *options) {
		o.batchSize = pages
	}
}

// WithMaxWorkers bounds how many build batches are indexed concurrently.
// Defaults to GOMAXPROCS.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}

// WithMemoryLimit bounds the estimated memory held by built but unmerged
// batches, and by the result cache. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithHighlight sets the markup wrapped around matched terms in excerpts.
// The default is <mark> and </mark>.
func WithHighlight(pre, post string) Option {
	return func(o *options) {
		o.highlighter = excerpt.Highlighter{Pre: pre, Post: post}
	}
}

// WithContextWords sets the number of words kept before a match in result
// excerpts. Twice as many are kept after it. Values below 1 keep the default (5);
// Excerpt takes its own context argument and honors 0.
func WithContextWords(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.contextWords = n
		}
	}
}

// WithDefaultMaxResults sets the cap used by Search when maxResults is negative.
// Values below 1 keep the default (50); pass maxResults 0 to Search for an empty result.
func WithDefaultMaxResults(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultMaxResults = n
		}
	}
}

// WithResultCache caches up to entries advanced search result lists.
//
// The index never changes once built, so cached results stay valid for the
// lifetime of the Index. 0 disables the cache (the default).
func WithResultCache(entries int) Option {
	return func(o *options) {
		o.cacheEntries = entries
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		batchThreshold:    index.DefaultBatchThreshold,
		maxWorkers:        runtime.GOMAXPROCS(0),
		highlighter:       excerpt.DefaultHighlighter,
		contextWords:      excerpt.DefaultContextWords,
		defaultMaxResults: query.DefaultMaxResults,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
