package index

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hupe1980/booksearch/internal/resource"
	"github.com/hupe1980/booksearch/internal/text"
	"github.com/hupe1980/booksearch/model"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchThreshold is the segment count above which Build switches to batches.
	DefaultBatchThreshold = 1000

	// MinPhraseLen and MaxPhraseLen bound phrase index candidates, in characters.
	MinPhraseLen = 15
	MaxPhraseLen = 200

	// bytesPerTextByte is a rough multiplier from page text size to partial index size.
	bytesPerTextByte = 4
)

// Options configures Build.
type Options struct {
	// BatchThreshold is the segment count above which batching kicks in.
	// If 0, DefaultBatchThreshold is used.
	BatchThreshold int

	// BatchSize is the number of segments per batch. If 0, BatchThreshold is used.
	BatchSize int

	// Resources bounds concurrent batches and unmerged batch memory. May be nil.
	Resources *resource.Controller

	// Logger receives build progress. May be nil.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BatchThreshold <= 0 {
		o.BatchThreshold = DefaultBatchThreshold
	}
	if o.BatchSize <= 0 {
		o.BatchSize = o.BatchThreshold
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Build validates the segments and builds the index.
//
// Page numbers must be positive, unique and strictly increasing; any other
// ordering is reported as a *PageError. Empty or malformed text never fails.
func Build(ctx context.Context, segments []model.Segment, chapters []model.Chapter, opts Options) (*Index, error) {
	opts = opts.withDefaults()

	if err := Validate(segments); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	idx := newIndex(segments, chapters)

	if len(segments) <= opts.BatchThreshold {
		idx.merge(indexSegments(segments))
	} else if err := buildBatched(ctx, idx, segments, opts); err != nil {
		return nil, err
	}

	idx.optimize()

	opts.Logger.DebugContext(ctx, "index built",
		"pages", len(segments),
		"words", len(idx.wordOrder),
		"phrases", len(idx.phraseOrder),
		"chapters", len(idx.chapterOrder),
		"duration", time.Since(start),
	)

	return idx, nil
}

// Validate checks that page numbers are positive, unique and strictly increasing.
func Validate(segments []model.Segment) error {
	prev := 0
	for i, s := range segments {
		switch {
		case s.Page < 1 || int64(s.Page) > math.MaxUint32:
			return &PageError{Page: s.Page, Previous: prev, Reason: "page out of range"}
		case i > 0 && s.Page == prev:
			return &PageError{Page: s.Page, Previous: prev, Reason: "duplicate page"}
		case i > 0 && s.Page < prev:
			return &PageError{Page: s.Page, Previous: prev, Reason: "non-monotonic page"}
		}
		prev = s.Page
	}
	return nil
}

// buildBatched indexes batches concurrently and merges them strictly in order.
//
// Memory is reserved by the dispatcher in batch order and released by the
// merger in the same order, so the oldest unmerged batch always holds its
// reservation and the pipeline cannot deadlock. Whatever the merger does not
// reach is released before returning, so a failed build leaves rc as it found it.
func buildBatched(ctx context.Context, idx *Index, segments []model.Segment, opts Options) error {
	rc := opts.Resources
	if rc == nil {
		rc = resource.NewController(resource.Config{})
	}

	n := (len(segments) + opts.BatchSize - 1) / opts.BatchSize
	type batch struct {
		segs     []model.Segment
		reserved int64
		result   *partial
		done     chan struct{}
	}

	batches := make([]*batch, n)
	for i := range batches {
		lo := i * opts.BatchSize
		hi := min(lo+opts.BatchSize, len(segments))
		batches[i] = &batch{segs: segments[lo:hi], done: make(chan struct{})}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for _, b := range batches {
			if err := gctx.Err(); err != nil {
				return err
			}

			reserved, err := rc.AcquireMemory(gctx, estimate(b.segs))
			if err != nil {
				return err
			}

			if err := rc.AcquireWorker(gctx); err != nil {
				rc.ReleaseMemory(reserved)
				return err
			}
			b.reserved = reserved

			g.Go(func() error {
				defer rc.ReleaseWorker()
				b.result = indexSegments(b.segs)
				close(b.done)
				return nil
			})
		}
		return nil
	})

	mergeErr := func() error {
		for i, b := range batches {
			select {
			case <-b.done:
			case <-gctx.Done():
				return gctx.Err()
			}

			idx.merge(b.result)
			b.result = nil
			rc.ReleaseMemory(b.reserved)
			b.reserved = 0

			opts.Logger.DebugContext(ctx, "index batch merged",
				"batch", i+1,
				"batches", n,
				"pages", len(b.segs),
			)
		}
		return nil
	}()

	err := g.Wait()
	if err == nil {
		err = mergeErr
	}
	if err != nil {
		// Workers have finished, so every unmerged reservation is settled here.
		for _, b := range batches {
			rc.ReleaseMemory(b.reserved)
			b.reserved = 0
		}
		return err
	}
	return nil
}

func estimate(segs []model.Segment) int64 {
	var n int64
	for _, s := range segs {
		n += int64(len(s.Text))
	}
	return n * bytesPerTextByte
}

// partial is the index of a contiguous run of pages.
type partial struct {
	words     map[string][]model.WordEntry
	wordOrder []string

	phrases     map[string][]int
	phraseOrder []string
}

func indexSegments(segs []model.Segment) *partial {
	p := &partial{
		words:   make(map[string][]model.WordEntry),
		phrases: make(map[string][]int),
	}
	for _, s := range segs {
		p.addWords(s)
		p.addPhrases(s)
	}
	return p
}

func (p *partial) addWords(s model.Segment) {
	tokens := text.Words(strings.ToLower(s.Text))
	if len(tokens) == 0 {
		return
	}

	positions := make(map[string][]int)
	var order []string
	for _, tok := range tokens {
		if _, ok := positions[tok.Text]; !ok {
			order = append(order, tok.Text)
		}
		positions[tok.Text] = append(positions[tok.Text], tok.Offset)
	}

	for _, w := range order {
		if _, ok := p.words[w]; !ok {
			p.wordOrder = append(p.wordOrder, w)
		}
		p.words[w] = append(p.words[w], model.WordEntry{Page: s.Page, Positions: positions[w]})
	}
}

func (p *partial) addPhrases(s model.Segment) {
	for _, sentence := range text.Sentences(s.Text) {
		if n := text.Len(sentence); n < MinPhraseLen || n > MaxPhraseLen {
			continue
		}

		key := strings.ToLower(sentence)
		pages, ok := p.phrases[key]
		if !ok {
			p.phraseOrder = append(p.phraseOrder, key)
		}
		// Pages arrive in ascending order, so a repeat can only be the last one.
		if len(pages) == 0 || pages[len(pages)-1] != s.Page {
			p.phrases[key] = append(pages, s.Page)
		}
	}
}
