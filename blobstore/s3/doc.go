// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "books/")
//	book, err := corpus.Load(ctx, store, "bible.json.zst")
//
// # Features
//
//   - Range reads for partial fetches
//   - Whole-object downloads split into concurrent ranged GETs
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
