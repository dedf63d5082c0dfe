package corpus

import (
	"fmt"
	"io"

	"github.com/hupe1980/booksearch/codec"
	"github.com/hupe1980/booksearch/model"
)

// Book is an in-memory book.
type Book struct {
	segments []model.Segment
	chapters []model.Chapter
}

// NewBook creates a Book from already analyzed segments and chapters.
func NewBook(segments []model.Segment, chapters []model.Chapter) *Book {
	return &Book{segments: segments, chapters: chapters}
}

// Segments returns the page segments in page order.
func (b *Book) Segments() []model.Segment { return b.segments }

// Chapters returns the chapter table.
func (b *Book) Chapters() []model.Chapter { return b.chapters }

type document struct {
	Segments []model.Segment `json:"segments"`
	Chapters []model.Chapter `json:"chapters"`
}

// Decode reads an uncompressed book document. A nil codec selects codec.Default.
func Decode(r io.Reader, c codec.Codec) (*Book, error) {
	c = codec.Or(c)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("corpus: read book: %w", err)
	}

	var doc document
	if err := c.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("corpus: decode book (%s): %w", c.Name(), err)
	}
	return NewBook(doc.Segments, doc.Chapters), nil
}

// Encode writes b as an uncompressed book document. A nil codec selects codec.Default.
func Encode(w io.Writer, b *Book, c codec.Codec) error {
	c = codec.Or(c)

	data, err := c.Marshal(document{Segments: b.segments, Chapters: b.chapters})
	if err != nil {
		return fmt.Errorf("corpus: encode book (%s): %w", c.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("corpus: write book: %w", err)
	}
	return nil
}
