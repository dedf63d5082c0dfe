// Package index builds the immutable search structures for a book.
//
// Build turns the ordered page segments and the detected chapters into:
//
//   - an inverted index: word -> one WordEntry per page with every offset
//   - a phrase index: sentence-length phrase (15-200 characters) -> pages
//   - a chapter index: chapter number -> chapter
//
// Large books are split into batches that are indexed concurrently and merged
// in page order, so the batched and single-pass paths produce identical indexes.
// An Index is read-only after Build returns and safe for concurrent use.
package index
