package s3

import (
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/booksearch/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_S3Store reads an existing corpus object. It needs
// S3_BUCKET and S3_KEY pointing at a readable object.
func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	key := os.Getenv("S3_KEY")
	if bucket == "" || key == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET or S3_KEY not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	store := NewStore(s3.NewFromConfig(cfg), bucket, "")

	blob, err := store.Open(ctx, key)
	require.NoError(t, err)
	size := blob.Size()
	require.NoError(t, blob.Close())

	data, err := blobstore.ReadAll(ctx, store, key)
	require.NoError(t, err)
	assert.Equal(t, size, int64(len(data)))

	names, err := store.List(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, names, key)
}
