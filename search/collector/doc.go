// Package collector gathers scored documents produced by per-segment
// scorers.
//
// TopDocsCollector keeps the K best hits in a bounded min-heap. In parallel
// mode every segment gets its own LeafCollector that forwards (global doc,
// score) pairs into a shared unbounded queue; Finish is the single consumer that
// folds them into the heap, so the heap is never touched by more than one
// goroutine.
package collector
