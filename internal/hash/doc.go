// Package hash provides the CRC32-Castagnoli checksum used to protect
// segment files.
//
// Every file written through store.OutputStream carries a running CRC32C
// of all bytes preceding the checksum field of its footer. Readers recompute
// it over the mapped bytes and compare:
//
//	crc := hash.CRC32C(data[:len(data)-8])
//	if hash.Footer(crc) != stored { ... }
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when available.
package hash
