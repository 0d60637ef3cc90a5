// Package testutil provides testing utilities for lexgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded random generators for scores, postings and field
// lengths, a scripted scorer, and brute-force top-K ground truth.
//
//	rng := testutil.NewRNG(seed)
//	scores := rng.Scores(100)
//	scorer := testutil.NewScriptedScorer(docs, scores)
//	want := testutil.ExactTopK(hits, 10)
package testutil
