package hash

import (
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}

// Footer widens a CRC32C to the 64-bit value stored in segment file footers.
// Checksums are never negative and the high 32 bits are always zero.
func Footer(crc uint32) int64 {
	return int64(crc)
}

// ValidFooter reports whether v can be a checksum written by Footer.
func ValidFooter(v int64) bool {
	return v >= 0 && v <= 0xFFFFFFFF
}
