// Package compress provides the stream compression used when segment files
// are shipped to object storage.
//
// Two formats are supported, both self-describing through their frame
// magic:
//
//   - LZ4 frames (github.com/pierrec/lz4/v4): fast, modest ratio.
//   - Zstandard frames (github.com/klauspost/compress/zstd): slower, better ratio.
//
// Writers pick a Type explicitly; NewReader detects it, so a store can
// change its compression setting without rewriting existing objects.
package compress
