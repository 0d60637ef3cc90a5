package collector

import (
	"github.com/hupe1980/lexgo/search"
)

// Collector receives the documents matched by a scorer.
type Collector interface {
	// Collect is called with a segment-local doc id while scorer is
	// positioned on that document.
	Collect(doc int32, scorer search.Scorer) error
}

// LeafCollector collects the documents of a single segment on behalf of a
// parent SearchCollector.
type LeafCollector interface {
	Collector

	// FinishLeaf releases the collector. Collect must not be called
	// afterwards.
	FinishLeaf() error
}

// SearchCollector collects across all segments of a search.
type SearchCollector interface {
	Collector

	// SetNextReader tells a sequential search which segment follows.
	SetNextReader(ord int, leaf search.LeafReader) error

	// SupportParallel reports whether LeafCollector may be used.
	SupportParallel() bool

	// LeafCollector returns an independent collector for leaf. All leaf
	// collectors must be obtained before Finish is called.
	LeafCollector(leaf search.LeafReader) (LeafCollector, error)

	// Finish merges the output of all leaf collectors. It returns once every
	// leaf collector has been released, so it must run concurrently with
	// the goroutines driving them.
	Finish() error
}
