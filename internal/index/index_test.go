package index

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/booksearch/internal/resource"
	"github.com/hupe1980/booksearch/model"
	"github.com/hupe1980/booksearch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSegments() []model.Segment {
	return []model.Segment{
		{Page: 1, Chapter: 1, Text: "O sol brilha forte hoje."},
		{Page: 2, Chapter: 1, Text: "A lua brilha à noite."},
		{Page: 3, Chapter: 2, Text: "Nada brilha na escuridão total."},
	}
}

func TestBuild_Words(t *testing.T) {
	idx, err := Build(t.Context(), sampleSegments(), nil, Options{})
	require.NoError(t, err)

	entries := idx.Lookup("brilha")
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Page)
		assert.Equal(t, 1, e.Count())
	}

	// "O sol brilha": offset of "brilha" in the lower-cased text.
	assert.Equal(t, []int{6}, entries[0].Positions)
	assert.Equal(t, []int{15}, idx.Lookup("escuridão")[0].Positions)
	assert.Empty(t, idx.Lookup("Brilha"))
}

func TestBuild_WordOrder(t *testing.T) {
	idx, err := Build(t.Context(), []model.Segment{
		{Page: 1, Text: "beta alpha beta"},
		{Page: 2, Text: "gamma alpha"},
	}, nil, Options{})
	require.NoError(t, err)

	var words []string
	for w, entries := range idx.Words() {
		words = append(words, w)
		assert.NotEmpty(t, entries)
	}
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, words)
	assert.Equal(t, []int{0, 11}, idx.Lookup("beta")[0].Positions)
}

func TestBuild_WordCountInvariant(t *testing.T) {
	segments := testutil.NewRNG(4711).Segments(60, 80)
	idx, err := Build(t.Context(), segments, nil, Options{})
	require.NoError(t, err)

	for _, w := range testutil.Vocabulary {
		byPage := make(map[int]int)
		for _, e := range idx.Lookup(w) {
			byPage[e.Page] = e.Count()
			assert.True(t, slices.IsSorted(e.Positions))
		}
		for _, s := range segments {
			assert.Equal(t, testutil.CountWord(s.Text, w), byPage[s.Page], "word %q page %d", w, s.Page)
		}
	}
}

func TestBuild_Phrases(t *testing.T) {
	idx, err := Build(t.Context(), []model.Segment{
		{Page: 1, Text: "Short one. Nada brilha na escuridão total! Again?"},
		{Page: 2, Text: "nada brilha na escuridão total. " + strings.Repeat("x", 201) + "."},
		{Page: 3, Text: "Exactly fifteen. Nada brilha na escuridão total. Nada brilha na escuridão total."},
	}, nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, idx.PhrasePages("nada brilha na escuridão total"))
	assert.Equal(t, []int{3}, idx.PhrasePages("exactly fifteen"))
	assert.Nil(t, idx.PhrasePages("short one"))
	assert.Nil(t, idx.PhrasePages(strings.Repeat("x", 201)))

	var phrases []string
	for p := range idx.Phrases() {
		phrases = append(phrases, p)
	}
	assert.Equal(t, []string{"nada brilha na escuridão total", "exactly fifteen"}, phrases)
}

func TestBuild_EmptyText(t *testing.T) {
	idx, err := Build(t.Context(), []model.Segment{{Page: 1}, {Page: 2, Text: " ...  "}}, nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, Stats{Pages: 2}, idx.Stats())
	seg, ok := idx.Segment(2)
	assert.True(t, ok)
	assert.Equal(t, " ...  ", seg.Text)
}

func TestBuild_EmptyCorpus(t *testing.T) {
	idx, err := Build(t.Context(), nil, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{}, idx.Stats())
	assert.Empty(t, idx.PagesInRange(1, 10))
}

func TestBuild_Chapters(t *testing.T) {
	idx, err := Build(t.Context(), sampleSegments(), []model.Chapter{
		{Number: 1, Title: "Dia", StartPage: 1, EndPage: 2},
		{Number: 2, Title: "Noite", StartPage: 3, EndPage: 3},
		{Number: 1, Title: "Dia (revisto)", StartPage: 1, EndPage: 1},
		{Number: 7, Title: "Invertido", StartPage: 9, EndPage: 4},
	}, Options{})
	require.NoError(t, err)

	ch, ok := idx.Chapter(1)
	require.True(t, ok)
	assert.Equal(t, "Dia (revisto)", ch.Title)

	_, ok = idx.Chapter(3)
	assert.False(t, ok)

	var numbers []int
	for ch := range idx.Chapters() {
		numbers = append(numbers, ch.Number)
	}
	assert.Equal(t, []int{1, 2, 7}, numbers)
	assert.Equal(t, 3, idx.Stats().Chapters)
}

func TestBuild_DataIntegrity(t *testing.T) {
	tests := []struct {
		name   string
		pages  []int
		reason string
	}{
		{"duplicate", []int{1, 2, 2}, "duplicate page"},
		{"non-monotonic", []int{1, 3, 2}, "non-monotonic page"},
		{"zero", []int{0, 1}, "page out of range"},
		{"negative", []int{1, -4}, "page out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var segs []model.Segment
			for _, p := range tt.pages {
				segs = append(segs, model.Segment{Page: p, Text: "text"})
			}

			_, err := Build(t.Context(), segs, nil, Options{})
			require.ErrorIs(t, err, ErrDataIntegrity)

			var pe *PageError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.reason, pe.Reason)
		})
	}
}

func TestBuild_NonContiguousPagesAllowed(t *testing.T) {
	idx, err := Build(t.Context(), []model.Segment{{Page: 2, Text: "a"}, {Page: 5, Text: "b"}}, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, idx.PagesInRange(1, 10))
	assert.Equal(t, []int{5}, idx.PagesInRange(3, 5))
	assert.Nil(t, idx.PagesInRange(5, 3))
	assert.Empty(t, idx.PagesInRange(6, 9))
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Build(ctx, sampleSegments(), nil, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_BatchedMatchesSinglePass(t *testing.T) {
	segments := testutil.NewRNG(99).Segments(230, 60)
	chapters := testutil.Chapters(segments, 40)

	single, err := Build(t.Context(), segments, chapters, Options{BatchThreshold: 1000})
	require.NoError(t, err)

	rc := resource.NewController(resource.Config{MaxWorkers: 3, MemoryLimitBytes: 8 << 10})
	batched, err := Build(t.Context(), segments, chapters, Options{
		BatchThreshold: 50,
		BatchSize:      17,
		Resources:      rc,
	})
	require.NoError(t, err)
	assert.Zero(t, rc.MemoryUsage())

	assert.Equal(t, single.Stats(), batched.Stats())
	assert.Equal(t, single.wordOrder, batched.wordOrder)
	assert.Equal(t, single.words, batched.words)
	assert.Equal(t, single.phraseOrder, batched.phraseOrder)
	for p := range single.Phrases() {
		assert.Equal(t, single.PhrasePages(p), batched.PhrasePages(p))
	}
}

func TestBuild_BatchedCanceled(t *testing.T) {
	segments := testutil.NewRNG(5).Segments(100, 20)

	rc := resource.NewController(resource.Config{MaxWorkers: 1, MemoryLimitBytes: 1})
	_, err := rc.AcquireMemory(t.Context(), 1)
	require.NoError(t, err)

	// The dispatcher blocks on memory until the deadline passes.
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err = Build(ctx, segments, nil, Options{BatchThreshold: 10, Resources: rc})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(1), rc.MemoryUsage())
}

// cancelOnMerge cancels a build as soon as its first batch is merged.
type cancelOnMerge struct {
	cancel context.CancelFunc
}

func (h cancelOnMerge) Enabled(context.Context, slog.Level) bool { return true }

func (h cancelOnMerge) Handle(_ context.Context, r slog.Record) error {
	if r.Message == "index batch merged" {
		h.cancel()
	}
	return nil
}

func (h cancelOnMerge) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h cancelOnMerge) WithGroup(string) slog.Handler      { return h }

func TestBuild_BatchedCanceledMidMergeReleasesMemory(t *testing.T) {
	segments := testutil.NewRNG(11).Segments(400, 20)

	for _, limit := range []int64{0, 1 << 30, 4 << 10} {
		rc := resource.NewController(resource.Config{MaxWorkers: 1, MemoryLimitBytes: limit})

		for range 25 {
			ctx, cancel := context.WithCancel(t.Context())
			_, err := Build(ctx, segments, nil, Options{
				BatchThreshold: 10,
				BatchSize:      2,
				Resources:      rc,
				Logger:         slog.New(cancelOnMerge{cancel: cancel}),
			})
			cancel()

			require.ErrorIs(t, err, context.Canceled, "limit %d", limit)
			require.Zero(t, rc.MemoryUsage(), "limit %d", limit)
		}

		// The same controller still serves a complete build.
		idx, err := Build(t.Context(), segments, nil, Options{BatchThreshold: 10, BatchSize: 2, Resources: rc})
		require.NoError(t, err)
		assert.Equal(t, 400, idx.Stats().Pages)
		assert.Zero(t, rc.MemoryUsage())
	}
}

func TestBuild_BatchedUnderTightMemoryLimit(t *testing.T) {
	segments := testutil.NewRNG(12).Segments(120, 30)

	// Smaller than a single batch estimate: reservations are clamped and batches run one at a time.
	rc := resource.NewController(resource.Config{MaxWorkers: 4, MemoryLimitBytes: 512})
	idx, err := Build(t.Context(), segments, nil, Options{BatchThreshold: 20, BatchSize: 10, Resources: rc})
	require.NoError(t, err)
	assert.Equal(t, 120, idx.Stats().Pages)
	assert.Zero(t, rc.MemoryUsage())
}

func BenchmarkBuild(b *testing.B) {
	segments := testutil.NewRNG(4711).Segments(2000, 150)

	b.Run("single", func(b *testing.B) {
		for b.Loop() {
			_, _ = Build(b.Context(), segments, nil, Options{BatchThreshold: len(segments)})
		}
	})

	b.Run("batched", func(b *testing.B) {
		rc := resource.NewController(resource.Config{MaxWorkers: 4})
		for b.Loop() {
			_, _ = Build(b.Context(), segments, nil, Options{BatchThreshold: 250, Resources: rc})
		}
	})
}
