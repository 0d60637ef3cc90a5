// Package s3 implements remote.Backend on Amazon S3 using the AWS SDK for
// Go v2.
//
// Uploads go through the SDK's multipart upload manager, so compressed
// streams of unknown length are sent without buffering whole files:
//
//	backend, err := s3.NewBackendFromConfig(ctx, "my-bucket", "indexes/products")
//	if err != nil { ... }
//	dir, err := remote.NewDirectory(backend, "/var/cache/lexgo")
//
// Missing objects are reported as lexgo.ErrNotFound.
package s3
