package codec

// ReusableIterator is a restartable sequence of per-document values.
// Reset rewinds it so that a second pass yields exactly the same values.
//
//	for it.Next() {
//	    v := it.Value()
//	}
//	if err := it.Err(); err != nil { ... }
//	it.Reset()
type ReusableIterator interface {
	Next() bool
	Value() int64
	Err() error
	Reset()
}

// SliceIterator iterates over a fixed slice of values.
type SliceIterator struct {
	values []int64
	pos    int
}

// NewSliceIterator returns an iterator over values. The slice is not copied.
func NewSliceIterator(values []int64) *SliceIterator {
	return &SliceIterator{values: values, pos: -1}
}

// Next advances to the following value.
func (it *SliceIterator) Next() bool {
	if it.pos+1 >= len(it.values) {
		it.pos = len(it.values)
		return false
	}
	it.pos++
	return true
}

// Value returns the current value.
func (it *SliceIterator) Value() int64 {
	return it.values[it.pos]
}

// Err always returns nil.
func (it *SliceIterator) Err() error {
	return nil
}

// Reset rewinds to before the first value.
func (it *SliceIterator) Reset() {
	it.pos = -1
}
