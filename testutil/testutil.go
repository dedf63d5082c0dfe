package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/hupe1980/booksearch/model"
)

// Vocabulary is the word list used by the generators, most frequent first.
var Vocabulary = []string{
	"the", "of", "and", "to", "in", "light", "river", "stone", "night", "voice",
	"garden", "house", "road", "bread", "wind", "fire", "window", "letter", "city", "mountain",
	"silence", "morning", "shadow", "harbor", "lantern", "orchard", "winter", "promise", "bridge", "mirror",
	"influx", "flux", "reflux", "aurora", "meridian", "threshold", "compass", "ember", "tide", "quarry",
}

// RNG encapsulates a seeded random source. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// zipfTable is the cumulative distribution P(k) ∝ 1/k^s over n ranks.
type zipfTable []float64

func newZipfTable(n int, s float64) zipfTable {
	cdf := make(zipfTable, n)
	var sum float64
	for k := 1; k <= n; k++ {
		sum += 1.0 / math.Pow(float64(k), s)
		cdf[k-1] = sum
	}
	for i := range cdf {
		cdf[i] /= sum
	}
	return cdf
}

func (z zipfTable) sample(u float64) int {
	i := sort.SearchFloat64s(z, u)
	if i >= len(z) {
		return len(z) - 1
	}
	return i
}

// Zipf returns a Zipfian-distributed value in [0, n).
// s=1.0 gives standard Zipf, larger values give a heavier head.
func (r *RNG) Zipf(n int, s float64) int {
	if n <= 1 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return newZipfTable(n, s).sample(r.rand.Float64())
}

// Sentence returns a capitalized sentence of the given word count without terminator.
func (r *RNG) Sentence(words int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sentenceLocked(newZipfTable(len(Vocabulary), 1.1), words)
}

func (r *RNG) sentenceLocked(z zipfTable, words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = Vocabulary[z.sample(r.rand.Float64())]
	}
	if len(parts) > 0 {
		parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	}
	return strings.Join(parts, " ")
}

// Segments generates pages 1..n with roughly wordsPerPage words each, split
// into sentences of 3 to 14 words ending in '.', '!' or '?'.
// Every page is assigned to a chapter of 50 pages.
func (r *RNG) Segments(n, wordsPerPage int) []model.Segment {
	r.mu.Lock()
	defer r.mu.Unlock()

	z := newZipfTable(len(Vocabulary), 1.1)
	terminators := []string{".", ".", ".", "!", "?"}

	segments := make([]model.Segment, n)
	for i := range segments {
		var b strings.Builder
		for written := 0; written < wordsPerPage; {
			k := 3 + r.rand.Intn(12)
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(r.sentenceLocked(z, k))
			b.WriteString(terminators[r.rand.Intn(len(terminators))])
			written += k
		}
		segments[i] = model.Segment{
			Page:    i + 1,
			Chapter: i/50 + 1,
			Text:    b.String(),
		}
	}
	return segments
}

// Chapters derives chapters of perChapter pages from segments.
func Chapters(segments []model.Segment, perChapter int) []model.Chapter {
	if perChapter <= 0 || len(segments) == 0 {
		return nil
	}

	var chapters []model.Chapter
	for lo := 0; lo < len(segments); lo += perChapter {
		hi := min(lo+perChapter, len(segments)) - 1
		n := len(chapters) + 1
		chapters = append(chapters, model.Chapter{
			Number:    n,
			Title:     fmt.Sprintf("Chapter %d", n),
			StartPage: segments[lo].Page,
			EndPage:   segments[hi].Page,
		})
	}
	return chapters
}

// CountWord counts whole-word, case-insensitive occurrences of word in text.
// It is an independent reference for the inverted index.
func CountWord(text, word string) int {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.Is(unicode.Mn, r)
	})

	word = strings.ToLower(word)
	count := 0
	for _, f := range fields {
		if f == word {
			count++
		}
	}
	return count
}
