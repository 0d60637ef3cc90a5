package mmap

import (
	"io"
	"os"
	"sync/atomic"
)

// Mapping represents a read-only, reference-counted memory mapping of a file.
//
// A new Mapping holds one reference. Every holder that needs the bytes to stay
// resident calls Retain and later Release; the memory is unmapped exactly when
// the last reference is released, never before.
type Mapping struct {
	data []byte
	size int
	refs atomic.Int64
	// unmap is the platform-specific function to unmap the memory.
	// nil for empty and heap-backed mappings.
	unmap func([]byte) error
}

// Open maps the file at path into memory.
// The file is mapped as read-only.
//
// A zero-length file yields an empty Mapping (Empty reports true) rather
// than an error; callers that require data decide how to reject it.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 || int64(int(size)) != size {
		return nil, ErrInvalidSize
	}

	m := &Mapping{size: int(size)}
	m.refs.Store(1)
	if size == 0 {
		return m, nil
	}

	// Platform-specific mapping
	data, unmapFunc, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	m.data = data
	m.unmap = unmapFunc

	return m, nil
}

// FromBytes wraps a heap byte slice in a Mapping with the same reference
// counting contract. Releasing the last reference drops the slice.
func FromBytes(data []byte) *Mapping {
	m := &Mapping{data: data, size: len(data)}
	m.refs.Store(1)
	return m
}

// Retain adds a reference. It fails with ErrClosed if the mapping has
// already been released.
func (m *Mapping) Retain() error {
	for {
		n := m.refs.Load()
		if n <= 0 {
			return ErrClosed
		}
		if m.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Release drops a reference and unmaps the memory when it was the last one.
func (m *Mapping) Release() error {
	n := m.refs.Add(-1)
	switch {
	case n > 0:
		return nil
	case n < 0:
		m.refs.Store(0)
		return ErrClosed
	}

	data := m.data
	m.data = nil
	if m.unmap != nil && data != nil {
		return m.unmap(data)
	}
	return nil
}

// Close releases the reference taken by Open.
func (m *Mapping) Close() error {
	return m.Release()
}

// Refs returns the current number of references.
func (m *Mapping) Refs() int64 {
	return m.refs.Load()
}

// Empty reports whether the mapped file had zero length.
func (m *Mapping) Empty() bool {
	return m.size == 0
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only while a reference is held.
func (m *Mapping) Bytes() []byte {
	if m.refs.Load() <= 0 {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.refs.Load() <= 0 {
		return ErrClosed
	}
	if m.data == nil || m.unmap == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	data := m.Bytes()
	if data == nil && m.size > 0 {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(data)) {
		return 0, io.EOF
	}
	n = copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
