// Package remote stores segment files in an object store.
//
// A Directory writes every output to a local cache file and uploads it when
// the output is closed. Inputs are downloaded into the cache on first use and
// then memory-mapped like any local file, so readers keep the zero-copy
// access of store.MMapInput. Concurrent opens of the same missing file share
// one download.
//
// Objects are compressed with zstd (default) or lz4 on upload; downloads
// detect the format from the frame header. Transfers can be throttled with a
// resource.Controller.
//
// Backends: MemoryBackend (tests), store/s3 (AWS SDK v2) and store/minio.
package remote
