package search

import (
	"fmt"
	"math"

	"github.com/hupe1980/lexgo"
)

// BM25 holds the Okapi BM25 free parameters.
type BM25 struct {
	K1 float64
	B  float64
}

// DefaultBM25 uses k1=1.2 and b=0.75.
var DefaultBM25 = BM25{K1: 1.2, B: 0.75}

// IDF returns log(1 + (N - n + 0.5) / (n + 0.5)).
func (BM25) IDF(docFreq, docCount int64) float64 {
	n := float64(docFreq)
	N := float64(docCount)
	return math.Log(1 + (N-n+0.5)/(n+0.5))
}

// TermStats are the collection statistics needed to score a single term.
type TermStats struct {
	// DocFreq is the number of documents containing the term.
	DocFreq int64
	// DocCount is the number of documents with the field.
	DocCount int64
	// AvgFieldLength is the mean field length over DocCount documents.
	AvgFieldLength float64
}

// TermScorer scores the documents of one term's postings with BM25, using
// the field's norms as document length.
type TermScorer struct {
	postings PostingIterator
	norms    NumericDocValues
	idf      float64
	k1Plus1  float64
	k1B      float64 // k1 * (1 - b)
	k1BAvg   float64 // k1 * b / avgdl
}

var _ Scorer = (*TermScorer)(nil)

// NewTermScorer wraps postings opened with flags. flags must include
// FeatureFreqs. norms may be nil, in which case every document is treated
// as having the average field length.
func NewTermScorer(postings PostingIterator, flags PostingFeature, norms NumericDocValues, stats TermStats, sim BM25) (*TermScorer, error) {
	if !flags.Requested(FeatureFreqs) {
		return nil, fmt.Errorf("%w: term scoring needs %s, got %s", lexgo.ErrIllegalArgument, FeatureFreqs, flags)
	}
	if stats.DocFreq < 0 || stats.DocCount < stats.DocFreq {
		return nil, fmt.Errorf("%w: invalid term stats docFreq=%d docCount=%d",
			lexgo.ErrIllegalArgument, stats.DocFreq, stats.DocCount)
	}

	avgDL := stats.AvgFieldLength
	if avgDL <= 0 {
		avgDL = 1
	}

	s := &TermScorer{
		postings: postings,
		norms:    norms,
		idf:      sim.IDF(stats.DocFreq, stats.DocCount),
		k1Plus1:  sim.K1 + 1,
		k1B:      sim.K1 * (1 - sim.B),
		k1BAvg:   sim.K1 * sim.B / avgDL,
	}
	if norms == nil {
		// docLen == avgDL collapses the length term to k1.
		s.k1B = sim.K1
		s.k1BAvg = 0
	}
	return s, nil
}

func (s *TermScorer) DocID() int32                        { return s.postings.DocID() }
func (s *TermScorer) Next() (int32, error)                { return s.postings.Next() }
func (s *TermScorer) Advance(target int32) (int32, error) { return s.postings.Advance(target) }
func (s *TermScorer) Cost() int64                         { return s.postings.Cost() }

// Score computes idf * tf*(k1+1) / (tf + k1*(1-b+b*dl/avgdl)).
func (s *TermScorer) Score() (float32, error) {
	freq, err := s.postings.Freq()
	if err != nil {
		return 0, err
	}
	tf := float64(freq)

	var docLen float64
	if s.norms != nil {
		v, err := s.norms.Get(s.postings.DocID())
		if err != nil {
			return 0, err
		}
		// Negative lengths would push the denominator to zero or below.
		docLen = max(0, float64(v))
	}

	return float32(s.idf * tf * s.k1Plus1 / (tf + s.k1B + s.k1BAvg*docLen)), nil
}
