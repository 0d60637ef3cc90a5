// Package mmap provides reference-counted, read-only memory mappings of
// segment files.
//
// # Overview
//
// A Mapping is created once per file and shared by every view and cursor
// reading that file. Holders call Retain/Release; the memory is unmapped
// exactly when the last reference is released. Because the mapping is never
// written after construction, concurrent readers need no locking.
//
// # Usage
//
//	m, err := mmap.Open("_0.nvd")
//	if err != nil { ... }
//	defer m.Release()
//
//	if m.Empty() { ... }       // zero-length files map to an empty Mapping
//	data := m.Bytes()          // zero-copy access
//	m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (advice is a no-op)
package mmap
