package mmap

// AdviseRange provides an access hint for the byte range [offset, offset+size)
// of the mapping. Views over a sub-range of a file use it so hints stay
// local to the bytes they actually read.
func (m *Mapping) AdviseRange(offset, size int, pattern AccessPattern) error {
	if m.refs.Load() <= 0 {
		return ErrClosed
	}
	if offset < 0 || size < 0 || offset > m.size-size {
		return ErrOutOfBounds
	}
	if m.data == nil || m.unmap == nil || size == 0 {
		return nil
	}
	return osAdvise(m.data[offset:offset+size], pattern)
}
