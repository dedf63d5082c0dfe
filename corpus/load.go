package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/booksearch/blobstore"
	"github.com/hupe1980/booksearch/codec"
	"github.com/hupe1980/booksearch/internal/resource"
)

// Options configures Load.
type Options struct {
	// StripMarkup removes HTML markup from segment text and chapter titles.
	StripMarkup bool

	// IOLimitBytesPerSec throttles reading the blob. If 0, the blob is
	// fetched whole, which lets stores that implement blobstore.Downloader
	// parallelize the transfer.
	IOLimitBytesPerSec int64

	// Codec decodes the book document. If nil, codec.Default (go-json) is used.
	Codec codec.Codec

	// Logger receives load progress. May be nil.
	Logger *slog.Logger
}

// Load reads, decompresses and decodes a book blob.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *Options)) (*Book, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	start := time.Now()

	raw, err := open(ctx, store, name, opts)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", name, err)
	}
	defer func() { _ = raw.Close() }()

	compression := CompressionFor(name)
	r, err := NewReader(raw, compression)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	book, err := Decode(r, opts.Codec)
	if err != nil {
		return nil, err
	}

	if opts.StripMarkup {
		for i := range book.segments {
			book.segments[i].Text = StripMarkup(book.segments[i].Text)
		}
		for i := range book.chapters {
			book.chapters[i].Title = StripMarkup(book.chapters[i].Title)
		}
	}

	opts.Logger.DebugContext(ctx, "corpus loaded",
		"name", name,
		"compression", compression.String(),
		"segments", len(book.segments),
		"chapters", len(book.chapters),
		"duration", time.Since(start),
	)

	return book, nil
}

func open(ctx context.Context, store blobstore.BlobStore, name string, opts Options) (io.ReadCloser, error) {
	if opts.IOLimitBytesPerSec <= 0 {
		data, err := blobstore.ReadAll(ctx, store, name)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	r, err := blobstore.NewReader(ctx, store, name)
	if err != nil {
		return nil, err
	}

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: opts.IOLimitBytesPerSec})
	return &limitedReader{
		Reader: resource.NewRateLimitedReader(ctx, r, rc),
		closer: r,
	}, nil
}

type limitedReader struct {
	io.Reader
	closer io.Closer
}

func (r *limitedReader) Close() error { return r.closer.Close() }
