// Package model defines core types used throughout booksearch.
//
// # Corpus Types
//
//   - Segment: one page of the book (1-based page number, chapter, raw text)
//   - Chapter: a detected chapter boundary (number, title, page range)
//
// # Result Types
//
// Result is a tagged union over the four query kinds. The Type field is the
// discriminator and exactly one variant payload is set for word, chapter and
// verse results (phrase results carry only the common fields):
//
//	switch r.Type {
//	case model.ResultWord:
//	    fmt.Println(r.Page, r.Count, r.MatchedTerm)
//	case model.ResultChapter:
//	    fmt.Println(r.Number, r.Title, r.StartPage, r.EndPage)
//	case model.ResultVerse:
//	    fmt.Println(r.Chapter, r.Verse, r.Page)
//	}
package model
