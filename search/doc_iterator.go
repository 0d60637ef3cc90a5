package search

import "math"

// NoMoreDocs is returned by a DocIterator once it is exhausted.
const NoMoreDocs int32 = math.MaxInt32

// DocIterator walks a strictly increasing sequence of segment-local doc ids.
type DocIterator interface {
	// DocID returns the current doc id, -1 before the first call to Next or
	// Advance and NoMoreDocs after exhaustion.
	DocID() int32

	// Next advances to the following document.
	Next() (int32, error)

	// Advance moves to the first document >= target. target must be greater
	// than the current doc id.
	Advance(target int32) (int32, error)

	// Cost is an upper bound on the number of documents this iterator visits.
	Cost() int64
}

// SlowAdvance implements Advance on top of Next for iterators without a
// skip structure.
func SlowAdvance(it DocIterator, target int32) (int32, error) {
	doc := it.DocID()
	for doc < target {
		var err error
		if doc, err = it.Next(); err != nil {
			return doc, err
		}
	}
	return doc, nil
}
