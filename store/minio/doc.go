// Package minio implements remote.Backend on MinIO and other S3-compatible
// object stores using minio-go.
//
//	client, err := minio.NewClient("localhost:9000", "minioadmin", "minioadmin", false)
//	if err != nil { ... }
//	dir, err := remote.NewDirectory(minio.NewBackend(client, "lexgo", "indexes/products"), cacheDir)
package minio
