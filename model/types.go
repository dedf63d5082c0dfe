package model

import (
	"errors"
	"fmt"
	"strings"
)

// Segment is one page-sized unit of the source text.
type Segment struct {
	Page    int    `json:"page"`
	Chapter int    `json:"chapter"`
	Text    string `json:"text"`
}

// Chapter is a chapter boundary as detected by the upstream segmenter.
// Ranges may overlap or be degenerate; consumers must not rely on
// StartPage <= EndPage.
type Chapter struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// WordEntry records every occurrence of one word on one page.
// Positions are character offsets into the lower-cased page text, ascending.
type WordEntry struct {
	Page      int
	Positions []int
}

// Count returns the number of occurrences on the page.
func (e WordEntry) Count() int {
	return len(e.Positions)
}

// Mode selects which query kinds a search runs.
type Mode string

const (
	ModeAll     Mode = "all"
	ModeWord    Mode = "word"
	ModePhrase  Mode = "phrase"
	ModeChapter Mode = "chapter"
	ModeVerse   Mode = "verse"
)

// ErrInvalidMode is returned for an unknown search mode.
var ErrInvalidMode = errors.New("invalid search mode")

// ParseMode parses a case-insensitive mode name. The empty string maps to ModeAll.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAll, nil
	case ModeAll, ModeWord, ModePhrase, ModeChapter, ModeVerse:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeAll, ModeWord, ModePhrase, ModeChapter, ModeVerse:
		return true
	}
	return false
}

// ResultType is the discriminator of Result.
type ResultType string

const (
	ResultWord    ResultType = "word"
	ResultPhrase  ResultType = "phrase"
	ResultChapter ResultType = "chapter"
	ResultVerse   ResultType = "verse"
)

// Result is a single search hit.
//
// The embedded variant pointers are nil unless Type selects them, so the
// promoted fields (r.Count, r.Title, ...) must only be read after checking Type.
type Result struct {
	Type    ResultType `json:"type"`
	Page    int        `json:"page"`
	Excerpt string     `json:"excerpt"`

	*WordMatch
	*ChapterMatch
	*VerseMatch
}

// WordMatch is the word-specific part of a Result.
type WordMatch struct {
	Count       int    `json:"count"`
	MatchedTerm string `json:"matched_term"`
}

// ChapterMatch is the chapter-specific part of a Result.
type ChapterMatch struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// VerseMatch is the verse-specific part of a Result.
type VerseMatch struct {
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
}

// NewWordResult creates a word result.
func NewWordResult(page int, excerpt string, count int, matched string) Result {
	return Result{
		Type:      ResultWord,
		Page:      page,
		Excerpt:   excerpt,
		WordMatch: &WordMatch{Count: count, MatchedTerm: matched},
	}
}

// NewPhraseResult creates a phrase result.
func NewPhraseResult(page int, excerpt string) Result {
	return Result{
		Type:    ResultPhrase,
		Page:    page,
		Excerpt: excerpt,
	}
}

// NewChapterResult creates a chapter result located at the chapter's start page.
func NewChapterResult(ch Chapter, excerpt string) Result {
	return Result{
		Type:    ResultChapter,
		Page:    ch.StartPage,
		Excerpt: excerpt,
		ChapterMatch: &ChapterMatch{
			Number:    ch.Number,
			Title:     ch.Title,
			StartPage: ch.StartPage,
			EndPage:   ch.EndPage,
		},
	}
}

// NewVerseResult creates a verse result.
func NewVerseResult(page int, excerpt string, chapter, verse int) Result {
	return Result{
		Type:       ResultVerse,
		Page:       page,
		Excerpt:    excerpt,
		VerseMatch: &VerseMatch{Chapter: chapter, Verse: verse},
	}
}

// Clone returns a copy of r that shares no variant payload with it.
func (r Result) Clone() Result {
	if r.WordMatch != nil {
		w := *r.WordMatch
		r.WordMatch = &w
	}
	if r.ChapterMatch != nil {
		c := *r.ChapterMatch
		r.ChapterMatch = &c
	}
	if r.VerseMatch != nil {
		v := *r.VerseMatch
		r.VerseMatch = &v
	}
	return r
}

// CloneResults deep-copies results. A nil slice stays nil and an empty one stays empty.
func CloneResults(results []Result) []Result {
	if results == nil {
		return nil
	}
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = r.Clone()
	}
	return out
}

// String returns a short human-readable form of the result.
func (r Result) String() string {
	switch {
	case r.Type == ResultWord && r.WordMatch != nil:
		return fmt.Sprintf("word(%s) p.%d x%d", r.MatchedTerm, r.Page, r.Count)
	case r.Type == ResultChapter && r.ChapterMatch != nil:
		return fmt.Sprintf("chapter %d %q p.%d-%d", r.Number, r.Title, r.StartPage, r.EndPage)
	case r.Type == ResultVerse && r.VerseMatch != nil:
		return fmt.Sprintf("verse %d:%d p.%d", r.Chapter, r.Verse, r.Page)
	default:
		return fmt.Sprintf("%s p.%d", r.Type, r.Page)
	}
}
