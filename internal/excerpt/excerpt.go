// Package excerpt cuts highlighted context windows out of page text.
package excerpt

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hupe1980/booksearch/internal/text"
)

const (
	// DefaultContextWords is the number of words kept before a match.
	DefaultContextWords = 5

	// PreviewLen is the number of characters returned when no match is found.
	PreviewLen = 200

	// Ellipsis marks a clipped excerpt.
	Ellipsis = "..."
)

// Highlighter wraps matched terms.
type Highlighter struct {
	Pre  string
	Post string
}

// DefaultHighlighter marks matches with an HTML <mark> element.
var DefaultHighlighter = Highlighter{Pre: "<mark>", Post: "</mark>"}

// Extractor builds excerpts. It is stateless and safe for concurrent use.
type Extractor struct {
	hl Highlighter
}

// New creates an Extractor using hl for highlighting.
func New(hl Highlighter) *Extractor {
	return &Extractor{hl: hl}
}

// Extract returns the words around the first case-insensitive occurrence of
// term in text: contextWords words before the word holding the match, the
// matched words, and 2*contextWords words after. Every occurrence of term in
// the window is highlighted and an ellipsis is appended when the window stops
// before the end of the page.
//
// When term does not occur, Extract falls back to Preview. It never fails,
// whatever characters term contains.
func (e *Extractor) Extract(pageText, term string, contextWords int) string {
	if term == "" {
		return e.Preview(pageText)
	}
	contextWords = max(contextWords, 0)

	re := compile(term)
	loc := re.FindStringIndex(pageText)
	if loc == nil {
		return e.Preview(pageText)
	}

	// A term with leading whitespace matches before its first word.
	from := loc[0]
	for from < loc[1] {
		r, size := utf8.DecodeRuneInString(pageText[from:])
		if !unicode.IsSpace(r) {
			break
		}
		from += size
	}

	words := strings.Fields(pageText)
	wordPos := wordIndex(pageText, from)
	termWords := max(len(strings.Fields(pageText[from:loc[1]])), 1)

	end := min(wordPos+termWords+2*contextWords, len(words))
	start := min(max(wordPos-contextWords, 0), end)

	window := strings.Join(words[start:end], " ")
	window = re.ReplaceAllStringFunc(window, func(m string) string {
		return e.hl.Pre + m + e.hl.Post
	})

	if end < len(words) {
		window += Ellipsis
	}
	return window
}

// Preview returns the first PreviewLen characters of the page, with an
// ellipsis when the page is longer.
func (e *Extractor) Preview(pageText string) string {
	s, cut := text.Truncate(pageText, PreviewLen)
	if cut {
		return s + Ellipsis
	}
	return s
}

// Highlight wraps every case-insensitive occurrence of term in s.
func (e *Extractor) Highlight(s, term string) string {
	if term == "" {
		return s
	}
	return compile(term).ReplaceAllStringFunc(s, func(m string) string {
		return e.hl.Pre + m + e.hl.Post
	})
}

func compile(term string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

// wordIndex returns the index, in strings.Fields(s), of the word containing byte offset off.
func wordIndex(s string, off int) int {
	n := len(strings.Fields(s[:off]))
	if n > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:off]); !unicode.IsSpace(r) {
			// The match starts inside the last counted word.
			n--
		}
	}
	return n
}
