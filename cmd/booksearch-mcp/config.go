package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/booksearch/blobstore"
	miniostore "github.com/hupe1980/booksearch/blobstore/minio"
	s3store "github.com/hupe1980/booksearch/blobstore/s3"
)

const defaultCacheEntries = 512

var errNoBook = errors.New("BOOK_URI is required")

type config struct {
	bookURI      string
	stripMarkup  bool
	ioLimit      int64
	cacheEntries int
	logLevel     slog.Level

	s3Endpoint string
	minio      miniostore.Config
}

// loadConfig reads the configuration from getenv, usually os.Getenv.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		bookURI:      getenv("BOOK_URI"),
		cacheEntries: defaultCacheEntries,
		s3Endpoint:   getenv("S3_ENDPOINT"),
		minio: miniostore.Config{
			Endpoint:  getenv("MINIO_ENDPOINT"),
			AccessKey: getenv("MINIO_ACCESS_KEY"),
			SecretKey: getenv("MINIO_SECRET_KEY"),
			Region:    getenv("MINIO_REGION"),
		},
	}

	if cfg.bookURI == "" {
		return cfg, errNoBook
	}

	var err error
	if v := getenv("BOOK_STRIP_MARKUP"); v != "" {
		if cfg.stripMarkup, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("BOOK_STRIP_MARKUP: %w", err)
		}
	}
	if v := getenv("BOOK_IO_LIMIT"); v != "" {
		if cfg.ioLimit, err = strconv.ParseInt(v, 10, 64); err != nil {
			return cfg, fmt.Errorf("BOOK_IO_LIMIT: %w", err)
		}
	}
	if v := getenv("BOOK_CACHE_ENTRIES"); v != "" {
		if cfg.cacheEntries, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("BOOK_CACHE_ENTRIES: %w", err)
		}
	}
	if v := getenv("MINIO_SECURE"); v != "" {
		if cfg.minio.Secure, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("MINIO_SECURE: %w", err)
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.logLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

// location is a parsed BOOK_URI.
type location struct {
	scheme string // "s3", "minio" or "" for the local filesystem
	bucket string
	name   string
}

func parseLocation(uri string) (location, error) {
	if !strings.Contains(uri, "://") {
		return location{name: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return location{}, fmt.Errorf("BOOK_URI: %w", err)
	}

	switch u.Scheme {
	case "file":
		return location{name: u.Path}, nil
	case "s3", "minio":
		name := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || name == "" {
			return location{}, fmt.Errorf("BOOK_URI: %q needs a bucket and an object key", uri)
		}
		return location{scheme: u.Scheme, bucket: u.Host, name: name}, nil
	default:
		return location{}, fmt.Errorf("BOOK_URI: unsupported scheme %q", u.Scheme)
	}
}

// openStore returns the blob store holding the book and the blob name within it.
func openStore(ctx context.Context, cfg config) (blobstore.BlobStore, string, error) {
	loc, err := parseLocation(cfg.bookURI)
	if err != nil {
		return nil, "", err
	}

	switch loc.scheme {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("load aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.s3Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.s3Endpoint)
				o.UsePathStyle = true
			}
		})
		return s3store.NewStore(client, loc.bucket, ""), loc.name, nil
	case "minio":
		client, err := miniostore.NewClient(cfg.minio)
		if err != nil {
			return nil, "", err
		}
		return miniostore.NewStore(client, loc.bucket, ""), loc.name, nil
	default:
		return blobstore.NewLocalStore(filepath.Dir(loc.name)), filepath.Base(loc.name), nil
	}
}
