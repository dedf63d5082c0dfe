package booksearch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/booksearch/internal/cache"
	"github.com/hupe1980/booksearch/internal/excerpt"
	"github.com/hupe1980/booksearch/internal/index"
	"github.com/hupe1980/booksearch/internal/query"
	"github.com/hupe1980/booksearch/internal/resource"
	"github.com/hupe1980/booksearch/model"
)

// SegmentStore provides the pre-analyzed book.
//
// Segments must be ordered by page number, with page numbers positive and
// unique. Both methods are called once, on the first build.
type SegmentStore interface {
	Segments() []model.Segment
	Chapters() []model.Chapter
}

// Index is the search facade over a SegmentStore.
//
// The index is built lazily, exactly once, by Build or by the first query.
// After that every method is safe for concurrent use and queries never lock.
type Index struct {
	store SegmentStore
	opts  options
	rc    *resource.Controller
	ex    *excerpt.Extractor
	cache cache.ResultCache

	mu       sync.Mutex
	built    atomic.Pointer[built]
	buildErr error
}

type built struct {
	idx    *index.Index
	engine *query.Engine
}

// Stats describes an Index.
type Stats struct {
	Built        bool  `json:"built"`
	Pages        int   `json:"pages"`
	Words        int   `json:"words"`
	Phrases      int   `json:"phrases"`
	Chapters     int   `json:"chapters"`
	CacheEntries int   `json:"cache_entries"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
}

// New creates an Index over store. Nothing is indexed until Build or the first query.
func New(store SegmentStore, optFns ...Option) (*Index, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	o := applyOptions(optFns)

	x := &Index{
		store: store,
		opts:  o,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes: o.memoryLimit,
			MaxWorkers:       int64(o.maxWorkers),
		}),
		ex: excerpt.New(o.highlighter),
	}

	if o.cacheEntries > 0 {
		x.cache = cache.New(o.cacheEntries, x.rc)
	}

	return x, nil
}

// Build indexes the store if that has not happened yet.
//
// A data integrity failure is remembered and returned by every later call,
// since the store would fail the same way again. A canceled build is not
// remembered; the next call starts over.
func (x *Index) Build(ctx context.Context) error {
	_, err := x.ensureBuilt(ctx)
	return err
}

func (x *Index) ensureBuilt(ctx context.Context) (*built, error) {
	if b := x.built.Load(); b != nil {
		return b, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if b := x.built.Load(); b != nil {
		return b, nil
	}
	if x.buildErr != nil {
		return nil, x.buildErr
	}

	start := time.Now()
	segments := x.store.Segments()

	idx, err := index.Build(ctx, segments, x.store.Chapters(), index.Options{
		BatchThreshold: x.opts.batchThreshold,
		BatchSize:      x.opts.batchSize,
		Resources:      x.rc,
		Logger:         x.opts.logger.Logger,
	})
	err = translateError(err)

	elapsed := time.Since(start)
	x.opts.logger.LogBuild(ctx, len(segments), elapsed, err)
	x.opts.metricsCollector.RecordBuild(len(segments), elapsed, err)

	if err != nil {
		if errors.Is(err, ErrDataIntegrity) {
			x.buildErr = err
		}
		return nil, err
	}

	b := &built{
		idx: idx,
		engine: query.New(idx, x.ex, query.Options{
			ContextWords: x.opts.contextWords,
			MaxResults:   x.opts.defaultMaxResults,
		}),
	}
	x.built.Store(b)
	return b, nil
}

// Search runs the advanced search: mode selects which queries run, and
// results are capped at maxResults. A negative maxResults selects the default
// cap (50 unless WithDefaultMaxResults says otherwise).
//
// With ModeAll, word results come first, then phrase, chapter and verse
// results, and the cap is applied to the concatenation.
//
// Only ErrInvalidMode and build failures are returned as errors; a query that
// matches nothing returns an empty slice.
func (x *Index) Search(ctx context.Context, q string, mode model.Mode, maxResults int) ([]model.Result, error) {
	start := time.Now()

	if !mode.Valid() {
		err := fmt.Errorf("%w: %q", ErrInvalidMode, mode)
		x.record(ctx, mode, q, nil, false, start, err)
		return nil, err
	}

	b, err := x.ensureBuilt(ctx)
	if err != nil {
		x.record(ctx, mode, q, nil, false, start, err)
		return nil, err
	}

	if maxResults < 0 {
		maxResults = x.opts.defaultMaxResults
	}

	key := cache.Key{Mode: mode, Query: q, MaxResults: maxResults}
	if x.cache != nil {
		if results, ok := x.cache.Get(ctx, key); ok {
			x.opts.metricsCollector.RecordCacheHit()
			x.record(ctx, mode, q, results, true, start, nil)
			return results, nil
		}
		x.opts.metricsCollector.RecordCacheMiss()
	}

	results, err := b.engine.Advanced(q, mode, maxResults)
	if err != nil {
		x.record(ctx, mode, q, nil, false, start, err)
		return nil, err
	}

	if x.cache != nil {
		x.cache.Set(ctx, key, results)
	}

	x.record(ctx, mode, q, results, false, start, nil)
	return results, nil
}

// SearchWord searches the inverted index. With exact set only the whole word
// matches; otherwise every indexed word containing term does. Results are
// ordered by occurrence count, descending.
func (x *Index) SearchWord(ctx context.Context, term string, exact bool) ([]model.Result, error) {
	return x.run(ctx, model.ModeWord, term, func(e *query.Engine) []model.Result {
		return e.Word(term, exact)
	})
}

// SearchPhrase searches for a sentence-like phrase, one result per page.
func (x *Index) SearchPhrase(ctx context.Context, phrase string) ([]model.Result, error) {
	return x.run(ctx, model.ModePhrase, phrase, func(e *query.Engine) []model.Result {
		return e.Phrase(phrase)
	})
}

// SearchChapter finds chapters by number or by title substring.
func (x *Index) SearchChapter(ctx context.Context, ref string) ([]model.Result, error) {
	return x.run(ctx, model.ModeChapter, ref, func(e *query.Engine) []model.Result {
		return e.Chapter(ref)
	})
}

// SearchVerse finds the pages of a chapter that carry a verse marker, for
// references such as "3:16" or "3.16".
func (x *Index) SearchVerse(ctx context.Context, ref string) ([]model.Result, error) {
	return x.run(ctx, model.ModeVerse, ref, func(e *query.Engine) []model.Result {
		return e.Verse(ref)
	})
}

func (x *Index) run(ctx context.Context, mode model.Mode, q string, fn func(*query.Engine) []model.Result) ([]model.Result, error) {
	start := time.Now()

	b, err := x.ensureBuilt(ctx)
	if err != nil {
		x.record(ctx, mode, q, nil, false, start, err)
		return nil, err
	}

	results := fn(b.engine)
	if results == nil {
		results = []model.Result{}
	}

	x.record(ctx, mode, q, results, false, start, nil)
	return results, nil
}

func (x *Index) record(ctx context.Context, mode model.Mode, q string, results []model.Result, cached bool, start time.Time, err error) {
	x.opts.logger.LogSearch(ctx, mode, q, len(results), cached, err)
	x.opts.metricsCollector.RecordSearch(mode, len(results), time.Since(start), err)
}

// Excerpt returns a highlighted excerpt of a page around the first
// occurrence of term, or a plain preview when term does not occur.
// Unknown pages yield an empty string.
func (x *Index) Excerpt(ctx context.Context, page int, term string, contextWords int) (string, error) {
	b, err := x.ensureBuilt(ctx)
	if err != nil {
		return "", err
	}

	seg, ok := b.idx.Segment(page)
	if !ok {
		return "", nil
	}
	return x.ex.Extract(seg.Text, term, contextWords), nil
}

// Page returns the segment of a page.
func (x *Index) Page(ctx context.Context, page int) (model.Segment, bool, error) {
	b, err := x.ensureBuilt(ctx)
	if err != nil {
		return model.Segment{}, false, err
	}

	seg, ok := b.idx.Segment(page)
	return seg, ok, nil
}

// Chapters returns the indexed chapters, ordered by first appearance.
// A chapter number listed twice keeps its first position and its last value.
func (x *Index) Chapters(ctx context.Context) ([]model.Chapter, error) {
	b, err := x.ensureBuilt(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Collect(b.idx.Chapters()), nil
}

// Stats returns index and cache statistics. It never triggers a build.
func (x *Index) Stats() Stats {
	var s Stats

	if b := x.built.Load(); b != nil {
		is := b.idx.Stats()
		s.Built = true
		s.Pages = is.Pages
		s.Words = is.Words
		s.Phrases = is.Phrases
		s.Chapters = is.Chapters
	}

	if x.cache != nil {
		s.CacheEntries = x.cache.Len()
		s.CacheHits, s.CacheMisses = x.cache.Stats()
	}

	return s
}
