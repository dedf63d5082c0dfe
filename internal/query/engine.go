package query

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/booksearch/internal/excerpt"
	"github.com/hupe1980/booksearch/internal/index"
	"github.com/hupe1980/booksearch/internal/text"
	"github.com/hupe1980/booksearch/model"
)

const (
	// DefaultMaxResults caps advanced search results when the caller passes a negative limit.
	DefaultMaxResults = 50

	// DefaultPhraseContextWords is the excerpt context for phrases recovered by the fallback scan.
	DefaultPhraseContextWords = 15

	// fallbackMinWords is the word count above which a missed phrase is rescanned page by page.
	fallbackMinWords = 3
)

// Options configures an Engine.
type Options struct {
	// ContextWords is the excerpt context for regular results.
	ContextWords int
	// PhraseContextWords is the excerpt context for fallback phrase results.
	PhraseContextWords int
	// MaxResults is the default advanced search cap.
	MaxResults int
}

// Engine runs queries against an immutable index.
type Engine struct {
	idx  *index.Index
	ex   *excerpt.Extractor
	opts Options
}

// New creates an Engine. Zero option fields take their defaults.
func New(idx *index.Index, ex *excerpt.Extractor, opts Options) *Engine {
	if ex == nil {
		ex = excerpt.New(excerpt.DefaultHighlighter)
	}
	if opts.ContextWords <= 0 {
		opts.ContextWords = excerpt.DefaultContextWords
	}
	if opts.PhraseContextWords <= 0 {
		opts.PhraseContextWords = DefaultPhraseContextWords
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	return &Engine{idx: idx, ex: ex, opts: opts}
}

type wordHit struct {
	word  string
	entry model.WordEntry
}

// Word searches the inverted index.
//
// With exact set only the word equal to the lower-cased term matches;
// otherwise every indexed word containing the term does, and each result
// reports the word it matched. Results are ordered by occurrence count,
// descending, with ties kept in index order.
func (e *Engine) Word(term string, exact bool) []model.Result {
	term = text.Normalize(term)
	if term == "" {
		return nil
	}

	var hits []wordHit
	if exact {
		for _, entry := range e.idx.Lookup(term) {
			hits = append(hits, wordHit{word: term, entry: entry})
		}
	} else {
		for w, entries := range e.idx.Words() {
			if !strings.Contains(w, term) {
				continue
			}
			for _, entry := range entries {
				hits = append(hits, wordHit{word: w, entry: entry})
			}
		}
	}

	slices.SortStableFunc(hits, func(a, b wordHit) int {
		return cmp.Compare(b.entry.Count(), a.entry.Count())
	})

	results := make([]model.Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, model.NewWordResult(
			h.entry.Page,
			e.ex.Extract(e.idx.Text(h.entry.Page), term, e.opts.ContextWords),
			h.entry.Count(),
			h.word,
		))
	}
	return results
}

// Phrase searches the phrase index, one result per page.
//
// Sentence splitting at index time rarely lines up with what a reader types,
// so when the exact lookup finds nothing and the phrase has more than three
// words, every page holding the phrase's first word is scanned for the whole
// phrase instead. Those results get a wider excerpt.
func (e *Engine) Phrase(phrase string) []model.Result {
	norm := text.Normalize(phrase)
	if norm == "" {
		return nil
	}

	var results []model.Result
	for _, page := range e.idx.PhrasePages(norm) {
		results = append(results, model.NewPhraseResult(
			page,
			e.ex.Extract(e.idx.Text(page), norm, e.opts.ContextWords),
		))
	}
	if len(results) > 0 || len(strings.Fields(norm)) <= fallbackMinWords {
		return results
	}

	first := text.FirstWord(norm)
	if first == "" {
		return nil
	}
	for _, entry := range e.idx.Lookup(first) {
		pageText := e.idx.Text(entry.Page)
		if !strings.Contains(strings.ToLower(pageText), norm) {
			continue
		}
		results = append(results, model.NewPhraseResult(
			entry.Page,
			e.ex.Extract(pageText, norm, e.opts.PhraseContextWords),
		))
	}
	return results
}

// Chapter looks a chapter up by number and, independently, by a
// case-insensitive title substring. A chapter matching both ways is returned twice.
func (e *Engine) Chapter(ref string) []model.Result {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	var results []model.Result
	if n, err := strconv.Atoi(ref); err == nil {
		if ch, ok := e.idx.Chapter(n); ok {
			results = append(results, e.chapterResult(ch))
		}
	}

	needle := strings.ToLower(ref)
	for ch := range e.idx.Chapters() {
		if strings.Contains(strings.ToLower(ch.Title), needle) {
			results = append(results, e.chapterResult(ch))
		}
	}
	return results
}

func (e *Engine) chapterResult(ch model.Chapter) model.Result {
	return model.NewChapterResult(ch, e.ex.Preview(e.idx.Text(ch.StartPage)))
}

// Advanced runs the queries selected by mode and caps the combined list.
//
// ModeAll runs, in this order: a partial word search, a phrase search when
// the query has more than one word, a chapter search, and a verse search when
// the query looks like a verse reference. Results are concatenated in that
// order and then truncated, so a large word result set can push the other
// kinds out; callers that need every kind should query them separately.
//
// A negative maxResults selects the engine default.
func (e *Engine) Advanced(query string, mode model.Mode, maxResults int) ([]model.Result, error) {
	if maxResults < 0 {
		maxResults = e.opts.MaxResults
	}

	var results []model.Result
	switch mode {
	case model.ModeAll:
		results = append(results, e.Word(query, false)...)
		if len(strings.Fields(query)) > 1 {
			results = append(results, e.Phrase(query)...)
		}
		results = append(results, e.Chapter(query)...)
		if IsVerseRef(query) {
			results = append(results, e.Verse(query)...)
		}
	case model.ModeWord:
		results = e.Word(query, false)
	case model.ModePhrase:
		results = e.Phrase(query)
	case model.ModeChapter:
		results = e.Chapter(query)
	case model.ModeVerse:
		results = e.Verse(query)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	if results == nil {
		results = []model.Result{}
	}
	return results, nil
}
