// Package booksearch provides full-text search over a single pre-analyzed book.
//
// A book is a sequence of page segments plus a chapter table, supplied by a
// SegmentStore (see package corpus for loading one from local disk, S3 or
// MinIO). The Index is built lazily on first use and is immutable afterwards,
// so queries run concurrently without locks.
//
// # Quick Start
//
//	book, _ := corpus.Load(ctx, blobstore.NewLocalStore("./books"), "book.json.zst")
//	idx, _ := booksearch.New(book, booksearch.WithResultCache(512))
//
//	results, _ := idx.Search(ctx, "light", booksearch.ModeAll, -1)
//	for _, r := range results {
//	    fmt.Println(r)
//	}
//
// # Query Kinds
//
//	idx.SearchWord(ctx, "light", true)      // exact word, ordered by count
//	idx.SearchWord(ctx, "flux", false)      // every word containing "flux"
//	idx.SearchPhrase(ctx, "the light was good")
//	idx.SearchChapter(ctx, "3")             // by number or title substring
//	idx.SearchVerse(ctx, "3:16")            // pages of chapter 3 marked with verse 16
//
// Search combines them: ModeAll runs word, phrase (multi-word queries only),
// chapter and verse (verse references only) searches, in that order, and caps
// the concatenation at maxResults.
//
// # Excerpts
//
// Every result carries an excerpt: a window of words around the first match
// with matches wrapped in <mark> tags (see WithHighlight and WithContextWords),
// or the start of the page when nothing on the page matched literally.
//
// # Errors
//
// Queries never fail on their input; a query that matches nothing returns an
// empty slice. The only errors are ErrInvalidMode for unknown modes,
// ErrDataIntegrity when the store's page numbers are not strictly increasing,
// and context errors from a build that was canceled.
package booksearch
