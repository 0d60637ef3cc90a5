// Package searcher drives per-segment scorers into a collector.
//
// An IndexSearcher walks its leaves sequentially, or, when the collector
// supports it and Options.Parallel is set, scores every leaf on its own
// goroutine while the calling goroutine merges their output. Worker
// concurrency is bounded by a resource controller.
//
//	s := searcher.New(leaves, func(o *searcher.Options) {
//	    o.Parallel = true
//	})
//	top, err := s.TopDocs(ctx, weight, 10)
package searcher
