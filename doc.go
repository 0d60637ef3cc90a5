// Package lexgo is the segment storage and query-execution core of an
// embeddable full-text search library.
//
// The root package only carries the ambient pieces shared by every
// subpackage: the error taxonomy, the structured Logger and the
// MetricsCollector. The engine itself lives in:
//
//   - store: zero-copy memory-mapped views (Source) and read cursors (MMapInput)
//     over segment files, plus output streams and directories
//   - codec/norms: per-field normalization values written with the narrowest
//     fixed width that fits the observed range
//   - search: document cursors, capability-negotiated posting iteration and
//     BM25 term scoring
//   - search/collector: the bounded top-K collector with lock-free parallel merge
//   - searcher: sequential and parallel per-segment search drivers
//
// # Quick Start
//
// Writing norms for a freshly flushed segment:
//
//	dir, _ := store.NewFSDirectory("./index")
//	state := codec.SegmentWriteState{
//	    Directory:   dir,
//	    SegmentInfo: codec.SegmentInfo{Name: "_0", ID: codec.NewSegmentID(), MaxDoc: 3},
//	}
//	w, _ := norms.NewWriter(ctx, state)
//	defer w.Close() // mandatory: writes the field terminator and footers
//	_ = w.AddField(codec.FieldInfo{Name: "body", Number: 0}, codec.NewSliceIterator([]int64{7, 3, 12}))
//
// Collecting the top 10 hits across segments in parallel:
//
//	s := searcher.New(leaves, func(o *searcher.Options) { o.Parallel = true })
//	top, _ := s.TopDocs(ctx, weight, 10)
//	for _, sd := range top.ScoreDocs {
//	    fmt.Println(sd.Doc, sd.Score)
//	}
//
// # Errors
//
// All fallible operations return errors wrapping one of ErrIllegalArgument,
// ErrIllegalState, ErrDataCorruption, ErrChannelFailure or ErrNotFound, so
// callers can classify them with errors.Is.
package lexgo
