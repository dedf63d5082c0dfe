// Package blobstore provides read-only access to book corpora wherever they live.
//
// BlobStore is the interface for opening and listing corpus blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-process blobs, for tests and embedded corpora
//   - s3.Store: Amazon S3 with range reads and parallel whole-object downloads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Stores that can fetch a whole blob faster than one sequential read (for
// example with concurrent ranged requests) may also implement Downloader,
// which ReadAll prefers.
package blobstore
