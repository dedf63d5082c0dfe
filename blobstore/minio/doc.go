// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. This package
// uses the official MinIO Go client library, so it also works with other
// S3-compatible storage systems like Ceph, SeaweedFS, and Garage.
//
// # Basic Usage
//
//	client, err := minio.NewClient(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minio.NewStore(client, "books", "pt/")
//	book, err := corpus.Load(ctx, store, "lusiadas.json.gz")
//
// # Features
//
//   - Native MinIO client
//   - Works with any S3-compatible storage (Ceph, Garage, SeaweedFS)
//   - Ranged reads and streaming whole-object downloads
//   - Air-gap friendly (no AWS dependencies required)
package minio
