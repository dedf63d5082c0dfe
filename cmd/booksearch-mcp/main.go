// Command booksearch-mcp serves a book over the Model Context Protocol on stdio.
//
// The book is a corpus document (see package corpus) located by BOOK_URI:
//
//	BOOK_URI=./book.json.zst             local file
//	BOOK_URI=s3://bucket/books/a.json.gz  Amazon S3 (or S3_ENDPOINT)
//	BOOK_URI=minio://bucket/a.json        MinIO (MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_SECURE)
//
// Other settings: BOOK_STRIP_MARKUP, BOOK_IO_LIMIT (bytes/s), BOOK_CACHE_ENTRIES
// and LOG_LEVEL. Logs go to stderr; stdout carries the protocol.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/booksearch"
	"github.com/hupe1980/booksearch/corpus"
	"github.com/mark3labs/mcp-go/server"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "booksearch-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return err
	}

	logger := booksearch.NewTextLogger(cfg.logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, name, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	book, err := corpus.Load(ctx, store, name, func(o *corpus.Options) {
		o.StripMarkup = cfg.stripMarkup
		o.IOLimitBytesPerSec = cfg.ioLimit
		o.Logger = logger.Logger
	})
	if err != nil {
		return err
	}

	metrics := &booksearch.BasicMetricsCollector{}
	idx, err := booksearch.New(book,
		booksearch.WithLogger(logger),
		booksearch.WithMetricsCollector(metrics),
		booksearch.WithResultCache(cfg.cacheEntries),
	)
	if err != nil {
		return err
	}

	if err := idx.Build(ctx); err != nil {
		return err
	}

	s := server.NewMCPServer("booksearch", version, server.WithToolCapabilities(true))
	(&bookServer{idx: idx, metrics: metrics}).register(s)

	logger.Info("serving book", "uri", cfg.bookURI, "pages", idx.Stats().Pages)
	return server.ServeStdio(s)
}
