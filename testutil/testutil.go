package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/lexgo/search"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// Scores returns n distinct scores in (0, n], shuffled.
// Distinct scores make top-K membership independent of tie handling.
func (r *RNG) Scores(n int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	scores := make([]float32, n)
	for i := range scores {
		scores[i] = float32(i+1) - r.rand.Float32()*0.5
	}
	r.rand.Shuffle(n, func(i, j int) { scores[i], scores[j] = scores[j], scores[i] })
	return scores
}

// Docs returns a sorted random subset of [0, maxDoc) where each doc is kept
// with probability density.
func (r *RNG) Docs(maxDoc int32, density float64) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []int32
	for d := int32(0); d < maxDoc; d++ {
		if r.rand.Float64() < density {
			docs = append(docs, d)
		}
	}
	return docs
}

// Postings returns postings for docs with term frequencies in [1, maxFreq].
func (r *RNG) Postings(docs []int32, maxFreq int) []search.Posting {
	r.mu.Lock()
	defer r.mu.Unlock()

	postings := make([]search.Posting, len(docs))
	for i, d := range docs {
		postings[i] = search.Posting{Doc: d, Freq: int32(1 + r.rand.Intn(maxFreq))}
	}
	return postings
}

// FieldLengths returns n field lengths in [1, maxLen] following a Zipf law
// with skew s, so most fields are short.
func (r *RNG) FieldLengths(n, maxLen int, s float64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	lengths := make([]int64, n)
	for i := range lengths {
		lengths[i] = int64(r.zipfLocked(maxLen, s)) + 1
	}
	return lengths
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Inverse transform over the cumulative distribution.
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// ScriptedScorer replays a fixed list of documents and scores.
type ScriptedScorer struct {
	docs   []int32
	scores []float32
	idx    int
	// ScoreErr, when set, is returned by Score.
	ScoreErr error
}

var _ search.Scorer = (*ScriptedScorer)(nil)

// NewScriptedScorer returns a scorer over docs with the matching scores.
// docs must be non-decreasing.
func NewScriptedScorer(docs []int32, scores []float32) *ScriptedScorer {
	if len(docs) != len(scores) {
		panic("testutil: docs and scores differ in length")
	}
	return &ScriptedScorer{docs: docs, scores: scores, idx: -1}
}

// DocID implements search.DocIterator.
func (s *ScriptedScorer) DocID() int32 {
	switch {
	case s.idx < 0:
		return -1
	case s.idx >= len(s.docs):
		return search.NoMoreDocs
	}
	return s.docs[s.idx]
}

// Next implements search.DocIterator.
func (s *ScriptedScorer) Next() (int32, error) {
	if s.idx < len(s.docs) {
		s.idx++
	}
	return s.DocID(), nil
}

// Advance implements search.DocIterator.
func (s *ScriptedScorer) Advance(target int32) (int32, error) {
	return search.SlowAdvance(s, target)
}

// Cost implements search.DocIterator.
func (s *ScriptedScorer) Cost() int64 {
	return int64(len(s.docs))
}

// Score implements search.Scorer.
func (s *ScriptedScorer) Score() (float32, error) {
	if s.ScoreErr != nil {
		return 0, s.ScoreErr
	}
	return s.scores[s.idx], nil
}

// ScoredDoc is a global doc id with its score.
type ScoredDoc struct {
	Doc   int32
	Score float32
}

// ExactTopK returns the k best hits by brute force: highest score first,
// ties broken by ascending doc id.
func ExactTopK(hits []ScoredDoc, k int) []ScoredDoc {
	sorted := append([]ScoredDoc(nil), hits...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Doc < sorted[j].Doc
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// ComputeRecall returns the fraction of groundTruth doc ids found in approximate.
func ComputeRecall(groundTruth, approximate []int32) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[int32]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i]] = struct{}{}
	}

	hits := 0
	for _, d := range approximate {
		if _, ok := truthSet[d]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
