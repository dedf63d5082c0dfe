package index

import (
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/booksearch/model"
)

// Index holds the built word, phrase and chapter structures.
type Index struct {
	segments []model.Segment
	pages    map[int]int // page -> position in segments
	allPages *roaring.Bitmap

	words     map[string][]model.WordEntry
	wordOrder []string

	phrases     map[string]*roaring.Bitmap
	phraseOrder []string

	chapters     map[int]model.Chapter
	chapterOrder []int
}

func newIndex(segments []model.Segment, chapters []model.Chapter) *Index {
	idx := &Index{
		segments: make([]model.Segment, len(segments)),
		pages:    make(map[int]int, len(segments)),
		allPages: roaring.New(),
		words:    make(map[string][]model.WordEntry),
		phrases:  make(map[string]*roaring.Bitmap),
		chapters: make(map[int]model.Chapter, len(chapters)),
	}

	copy(idx.segments, segments)
	for i, s := range idx.segments {
		idx.pages[s.Page] = i
		idx.allPages.Add(uint32(s.Page))
	}

	for _, ch := range chapters {
		if _, ok := idx.chapters[ch.Number]; !ok {
			idx.chapterOrder = append(idx.chapterOrder, ch.Number)
		}
		idx.chapters[ch.Number] = ch
	}

	return idx
}

// merge appends a partial index built over later pages.
func (idx *Index) merge(p *partial) {
	for _, w := range p.wordOrder {
		existing, ok := idx.words[w]
		if !ok {
			idx.wordOrder = append(idx.wordOrder, w)
		}
		idx.words[w] = append(existing, p.words[w]...)
	}

	for _, key := range p.phraseOrder {
		bm, ok := idx.phrases[key]
		if !ok {
			bm = roaring.New()
			idx.phrases[key] = bm
			idx.phraseOrder = append(idx.phraseOrder, key)
		}
		for _, page := range p.phrases[key] {
			bm.Add(uint32(page))
		}
	}
}

func (idx *Index) optimize() {
	idx.allPages.RunOptimize()
	for _, bm := range idx.phrases {
		bm.RunOptimize()
	}
}

// Segment returns the segment for a page.
func (idx *Index) Segment(page int) (model.Segment, bool) {
	i, ok := idx.pages[page]
	if !ok {
		return model.Segment{}, false
	}
	return idx.segments[i], true
}

// Text returns the raw text of a page, or "" if the page does not exist.
func (idx *Index) Text(page int) string {
	s, _ := idx.Segment(page)
	return s.Text
}

// Lookup returns the entries of a word in page order.
// The returned slice must not be modified.
func (idx *Index) Lookup(word string) []model.WordEntry {
	return idx.words[word]
}

// Words iterates over every indexed word in first-insertion order.
func (idx *Index) Words() iter.Seq2[string, []model.WordEntry] {
	return func(yield func(string, []model.WordEntry) bool) {
		for _, w := range idx.wordOrder {
			if !yield(w, idx.words[w]) {
				return
			}
		}
	}
}

// PhrasePages returns the pages containing a normalized phrase, ascending.
func (idx *Index) PhrasePages(phrase string) []int {
	bm, ok := idx.phrases[phrase]
	if !ok {
		return nil
	}
	return toPages(bm)
}

// Phrases iterates over every indexed phrase in first-insertion order.
func (idx *Index) Phrases() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range idx.phraseOrder {
			if !yield(p) {
				return
			}
		}
	}
}

// Chapter returns the chapter with the given number.
func (idx *Index) Chapter(number int) (model.Chapter, bool) {
	ch, ok := idx.chapters[number]
	return ch, ok
}

// Chapters iterates over the distinct chapters in first-insertion order.
func (idx *Index) Chapters() iter.Seq[model.Chapter] {
	return func(yield func(model.Chapter) bool) {
		for _, n := range idx.chapterOrder {
			if !yield(idx.chapters[n]) {
				return
			}
		}
	}
}

// PagesInRange returns the existing pages in [start, end], ascending.
// Inverted or out-of-book ranges yield no pages.
func (idx *Index) PagesInRange(start, end int) []int {
	if start < 1 {
		start = 1
	}
	if end < start {
		return nil
	}

	hi := min(uint64(end)+1, math.MaxUint32+1)
	rng := roaring.New()
	rng.AddRange(uint64(start), hi)
	rng.And(idx.allPages)
	return toPages(rng)
}

// Stats describes the size of the index.
type Stats struct {
	Pages    int `json:"pages"`
	Words    int `json:"words"`
	Phrases  int `json:"phrases"`
	Chapters int `json:"chapters"`
}

// Stats returns the index sizes.
func (idx *Index) Stats() Stats {
	return Stats{
		Pages:    len(idx.segments),
		Words:    len(idx.wordOrder),
		Phrases:  len(idx.phraseOrder),
		Chapters: len(idx.chapterOrder),
	}
}

func toPages(bm *roaring.Bitmap) []int {
	pages := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		pages = append(pages, int(it.Next()))
	}
	return pages
}
