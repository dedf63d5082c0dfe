// Package corpus loads pre-analyzed books from a blob store.
//
// A book is a JSON document holding the ordered page segments and the
// chapter table:
//
//	{
//	  "segments": [{"page": 1, "chapter": 1, "text": "..."}, ...],
//	  "chapters": [{"number": 1, "title": "...", "start_page": 1, "end_page": 12}, ...]
//	}
//
// The blob name selects the compression: ".gz" (gzip), ".zst" (zstd) and
// ".lz4" (lz4 frames) are decompressed transparently, anything else is read
// as plain JSON.
//
// Segment text exported from EPUB or HTML sources can carry markup. With
// StripMarkup set, tags are removed, entities decoded and whitespace
// collapsed before the book is handed to the index.
//
// A loaded *Book satisfies booksearch.SegmentStore.
package corpus
