// Package codec holds the pieces shared by all segment file formats: the
// versioned index header, the checksummed footer, segment metadata and
// file naming.
//
// Every codec file has the layout (big-endian):
//
//	header: int magic 0x3fd76c17 | vint-prefixed codec name | int version |
//	        16-byte segment id | byte suffix length | suffix
//	body:   codec specific
//	footer: int ^magic | int algorithm (0) | long CRC32C of all preceding bytes
//
// Readers validate every header field with CheckIndexHeader and the checksum
// with CheckFooter before trusting the body. Mismatches are reported as
// *CorruptIndexError, which wraps lexgo.ErrDataCorruption.
package codec
