package query

import (
	"regexp"
	"strconv"

	"github.com/hupe1980/booksearch/model"
)

// versePattern matches "<chapter>:<verse>" or "<chapter>.<verse>" at the start of a reference.
var versePattern = regexp.MustCompile(`^\s*(\d+)[:.](\d+)`)

// nonWord is the negated word character class used for verse boundaries.
const nonWord = `[^\p{L}\p{N}\p{Mn}_]`

// ParseVerseRef extracts chapter and verse numbers from a reference such as "3:16" or "3.16".
func ParseVerseRef(ref string) (chapter, verse int, ok bool) {
	m := versePattern.FindStringSubmatch(ref)
	if m == nil {
		return 0, 0, false
	}

	chapter, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	verse, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return chapter, verse, true
}

// IsVerseRef reports whether ref starts with a verse reference.
func IsVerseRef(ref string) bool {
	_, _, ok := ParseVerseRef(ref)
	return ok
}

// verseMarker matches a verse number written as a standalone number or as a "16." / "16:" prefix.
func verseMarker(verse int) *regexp.Regexp {
	v := regexp.QuoteMeta(strconv.Itoa(verse))
	return regexp.MustCompile(`(?:^|` + nonWord + `)` + v + `(?:` + nonWord + `|$)|` + v + `[.:]`)
}

// Verse finds the pages of a chapter that carry the verse marker, in page order.
// References that do not parse or name an unknown chapter yield no results.
func (e *Engine) Verse(ref string) []model.Result {
	chapter, verse, ok := ParseVerseRef(ref)
	if !ok {
		return nil
	}
	ch, ok := e.idx.Chapter(chapter)
	if !ok {
		return nil
	}

	marker := verseMarker(verse)
	term := strconv.Itoa(verse)

	var results []model.Result
	for _, page := range e.idx.PagesInRange(ch.StartPage, ch.EndPage) {
		pageText := e.idx.Text(page)
		if !marker.MatchString(pageText) {
			continue
		}
		results = append(results, model.NewVerseResult(
			page,
			e.ex.Extract(pageText, term, e.opts.ContextWords),
			chapter,
			verse,
		))
	}
	return results
}
