// Package testutil provides testing utilities for booksearch.
//
// This package is intended for use in tests and benchmarks only.
// It generates deterministic synthetic books whose word frequencies follow
// a Zipf distribution, which is how words are distributed in real text.
//
// # Synthetic Books
//
//	rng := testutil.NewRNG(4711)
//	segments := rng.Segments(2000, 120)        // 2000 pages, ~120 words each
//	chapters := testutil.Chapters(segments, 50) // one chapter every 50 pages
//
// # Ground Truth
//
//	n := testutil.CountWord(segments[0].Text, "lorem")
package testutil
