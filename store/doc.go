// Package store provides byte-level access to segment files.
//
// Reading: a Source is a zero-copy view (mapping, offset, length) over a
// reference-counted memory mapping. Sources slice into further Sources that
// share the same backing bytes; MMapInput wraps a Source with a read cursor
// and random-access reads. Every Source and MMapInput holds one reference
// and releases it on Close; the file is unmapped when the last one closes.
//
//	in, err := store.OpenMMapInput("_0.nvd")
//	if err != nil { ... }
//	defer in.Close()
//
//	ra, _ := in.RandomAccessSlice(16, 64)
//	v, _ := ra.ReadLongAt(8) // cursor of in is untouched
//
// Writing: OutputStream buffers writes to any io.WriteCloser and maintains
// the CRC32C later stored in codec footers.
//
// Multi-byte values are big-endian. Variable-length ints store 7 bits per
// byte, least significant group first.
//
// Directories: FSDirectory (local files, mmap reads) and MemoryDirectory
// (heap regions) implement Directory; store/remote adds object-store backed
// directories.
package store
