package store

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/internal/mmap"
)

// Source is a read-only view (mapping, offset, length) over a shared byte
// region. Slicing never copies: every derived Source holds its own reference
// to the same mapping, so a small long-lived view keeps the whole mapping
// resident. Close releases the view's reference exactly once.
//
// A Source is safe for concurrent use.
type Source struct {
	m      *mmap.Mapping
	off    int
	length int
	closed atomic.Bool
}

// OpenSource maps the file at path read-only. A zero-length file cannot back
// a Source and fails with lexgo.ErrIllegalState.
func OpenSource(path string) (*Source, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	if m.Empty() {
		_ = m.Release()
		return nil, fmt.Errorf("%w: cannot map empty file %q", lexgo.ErrIllegalState, path)
	}
	return &Source{m: m, length: m.Size()}, nil
}

// NewSourceFromBytes wraps a heap slice in a Source with the same reference
// counting contract as a file mapping. data must not be modified afterwards.
func NewSourceFromBytes(data []byte) *Source {
	return &Source{m: mmap.FromBytes(data), length: len(data)}
}

// Len returns the length of the view in bytes.
func (s *Source) Len() int {
	return s.length
}

// Bytes returns the viewed bytes without copying. The slice is valid until
// the Source is closed and must not be modified.
func (s *Source) Bytes() []byte {
	if s.closed.Load() {
		return nil
	}
	data := s.m.Bytes()
	if data == nil {
		return nil
	}
	return data[s.off : s.off+s.length : s.off+s.length]
}

// Range returns the view of length bytes starting at offset.
func (s *Source) Range(offset, length int) (*Source, error) {
	if offset < 0 || length < 0 || offset > s.length-length {
		return nil, fmt.Errorf("%w: range (%d, %d) exceeds source of length %d",
			lexgo.ErrIllegalArgument, offset, length, s.length)
	}
	if s.closed.Load() {
		return nil, fmt.Errorf("%w: source is closed", lexgo.ErrIllegalState)
	}
	if err := s.m.Retain(); err != nil {
		return nil, fmt.Errorf("%w: %v", lexgo.ErrIllegalState, err)
	}
	return &Source{m: s.m, off: s.off + offset, length: length}, nil
}

// Slice returns the view of the bytes in [from, to).
func (s *Source) Slice(from, to int) (*Source, error) {
	if from > to {
		return nil, fmt.Errorf("%w: from offset %d > to offset %d", lexgo.ErrIllegalArgument, from, to)
	}
	return s.Range(from, to-from)
}

// SliceFrom is equivalent to Slice(from, s.Len()).
func (s *Source) SliceFrom(from int) (*Source, error) {
	return s.Slice(from, s.length)
}

// SliceTo is equivalent to Slice(0, to).
func (s *Source) SliceTo(to int) (*Source, error) {
	return s.Slice(0, to)
}

// Split returns SliceTo(addr) and SliceFrom(addr). Their concatenation is
// the original view.
func (s *Source) Split(addr int) (*Source, *Source, error) {
	left, err := s.SliceTo(addr)
	if err != nil {
		return nil, nil, err
	}
	right, err := s.SliceFrom(addr)
	if err != nil {
		_ = left.Close()
		return nil, nil, err
	}
	return left, right, nil
}

// Clone returns another view of the same bytes holding its own reference.
func (s *Source) Clone() (*Source, error) {
	return s.Range(0, s.length)
}

// Advise hints the kernel about how the viewed bytes will be accessed.
func (s *Source) Advise(pattern mmap.AccessPattern) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: source is closed", lexgo.ErrIllegalState)
	}
	return s.m.AdviseRange(s.off, s.length, pattern)
}

// ReadAt implements io.ReaderAt over the view.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	data := s.Bytes()
	if data == nil && s.length > 0 {
		return 0, fmt.Errorf("%w: source is closed", lexgo.ErrIllegalState)
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", lexgo.ErrIllegalArgument, off)
	}
	if off >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the view's reference. The mapping is unmapped when the
// last view or cursor over it is closed. Close is idempotent.
func (s *Source) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.m.Release()
}
