// Package search provides the per-segment query primitives: document
// cursors, capability-negotiated posting iteration and BM25 term scoring.
//
// All cursors start before the first document (DocID returns -1) and report
// exhaustion with NoMoreDocs. Posting iterators only guarantee the detail
// that was requested through PostingFeature flags; anything else may be
// skipped by the implementation.
package search
