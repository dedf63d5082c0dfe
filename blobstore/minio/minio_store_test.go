package minio

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/hupe1980/booksearch/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	require.ErrorIs(t, err, errNoEndpoint)

	client, err := NewClient(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", client.EndpointURL().Host)
}

func TestStore_Key(t *testing.T) {
	s := NewStore(nil, "bucket", "books/")
	assert.Equal(t, "books/pt/sol.json", s.key("pt/sol.json"))
	assert.Equal(t, "books", s.key(""))

	s = NewStore(nil, "bucket", "")
	assert.Equal(t, "sol.json", s.key("sol.json"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	bucket := "test-booksearch"

	client, err := NewClient(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	_, err = client.PutObject(ctx, bucket, "test-prefix/test.txt", bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	require.NoError(t, err)
	defer func() { _ = client.RemoveObject(ctx, bucket, "test-prefix/test.txt", minio.RemoveObjectOptions{}) }()

	store := NewStore(client, bucket, "test-prefix/")

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	all, err := blobstore.ReadAll(ctx, store, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, data, all)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.txt")

	_, err = store.Open(ctx, "missing.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
