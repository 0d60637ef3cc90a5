package search

import (
	"math"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/lexgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceNorms []int64

func (s sliceNorms) Get(doc int32) (int64, error) {
	if doc < 0 || int(doc) >= len(s) {
		return 0, lexgo.ErrIllegalArgument
	}
	return s[doc], nil
}

func TestBM25IDF(t *testing.T) {
	idf := DefaultBM25.IDF(1, 10)
	assert.InDelta(t, math.Log(1+9.5/1.5), idf, 1e-12)

	// Rarer terms weigh more.
	assert.Greater(t, DefaultBM25.IDF(1, 100), DefaultBM25.IDF(50, 100))
	// Never negative, even for terms in every document.
	assert.Greater(t, DefaultBM25.IDF(100, 100), 0.0)
}

func TestTermScorer(t *testing.T) {
	postings := []Posting{
		{Doc: 0, Freq: 1},
		{Doc: 1, Freq: 3},
		{Doc: 2, Freq: 1},
	}
	norms := sliceNorms{4, 4, 16}
	stats := TermStats{DocFreq: 3, DocCount: 10, AvgFieldLength: 8}

	it, err := NewMemoryPostings(postings, FeatureFreqs)
	require.NoError(t, err)

	s, err := NewTermScorer(it, FeatureFreqs, norms, stats, DefaultBM25)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Cost())

	var scores []float32
	for {
		doc, err := s.Next()
		require.NoError(t, err)
		if doc == NoMoreDocs {
			break
		}
		score, err := s.Score()
		require.NoError(t, err)
		scores = append(scores, score)
	}
	require.Len(t, scores, 3)

	idf := DefaultBM25.IDF(3, 10)
	want := idf * 1 * 2.2 / (1 + 1.2*(1-0.75+0.75*4.0/8.0))
	assert.InDelta(t, want, float64(scores[0]), 1e-5)

	// Higher tf scores higher at equal length.
	assert.Greater(t, scores[1], scores[0])
	// Longer field scores lower at equal tf.
	assert.Less(t, scores[2], scores[0])
}

func TestTermScorerWithoutNorms(t *testing.T) {
	it, err := NewMemoryPostings([]Posting{{Doc: 3, Freq: 2}}, FeatureFreqs)
	require.NoError(t, err)

	s, err := NewTermScorer(it, FeatureFreqs, nil, TermStats{DocFreq: 1, DocCount: 4, AvgFieldLength: 5}, DefaultBM25)
	require.NoError(t, err)

	_, err = s.Next()
	require.NoError(t, err)
	score, err := s.Score()
	require.NoError(t, err)

	want := DefaultBM25.IDF(1, 4) * 2 * 2.2 / (2 + 1.2)
	assert.InDelta(t, want, float64(score), 1e-5)
}

func TestTermScorerValidation(t *testing.T) {
	it, err := NewMemoryPostings(nil, FeatureNone)
	require.NoError(t, err)

	_, err = NewTermScorer(it, FeatureNone, nil, TermStats{DocFreq: 1, DocCount: 1}, DefaultBM25)
	assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)

	_, err = NewTermScorer(it, FeatureFreqs, nil, TermStats{DocFreq: 5, DocCount: 1}, DefaultBM25)
	assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)
}

func TestTermScorerNormsError(t *testing.T) {
	it, err := NewMemoryPostings([]Posting{{Doc: 7}}, FeatureFreqs)
	require.NoError(t, err)

	s, err := NewTermScorer(it, FeatureFreqs, sliceNorms{1}, TermStats{DocFreq: 1, DocCount: 8, AvgFieldLength: 1}, DefaultBM25)
	require.NoError(t, err)

	_, err = s.Next()
	require.NoError(t, err)
	_, err = s.Score()
	assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)
}

func TestTermScorerNegativeNormsScoreAsEmptyField(t *testing.T) {
	postings := []Posting{{Doc: 0, Freq: 1}, {Doc: 1, Freq: 1}, {Doc: 2, Freq: 1}, {Doc: 3, Freq: 1}}
	norms := sliceNorms{0, -1, -10, math.MinInt64}
	stats := TermStats{DocFreq: 4, DocCount: 10, AvgFieldLength: 1}

	it, err := NewMemoryPostings(postings, FeatureFreqs)
	require.NoError(t, err)
	s, err := NewTermScorer(it, FeatureFreqs, norms, stats, DefaultBM25)
	require.NoError(t, err)

	var scores []float32
	for {
		doc, err := s.Next()
		require.NoError(t, err)
		if doc == NoMoreDocs {
			break
		}
		score, err := s.Score()
		require.NoError(t, err)
		assert.False(t, math.IsInf(float64(score), 0))
		assert.False(t, math.IsNaN(float64(score)))
		assert.Greater(t, score, float32(0))
		scores = append(scores, score)
	}
	require.Len(t, scores, 4)
	for _, score := range scores[1:] {
		assert.Equal(t, scores[0], score)
	}
}

func TestLeaves(t *testing.T) {
	leaves := NewLeaves(3, 0, 5)
	require.Len(t, leaves, 3)
	assert.Equal(t, int32(0), leaves[0].DocBase())
	assert.Equal(t, int32(3), leaves[1].DocBase())
	assert.Equal(t, int32(3), leaves[2].DocBase())
	assert.Equal(t, 2, leaves[2].Ord())
	assert.Equal(t, int32(5), leaves[2].MaxDoc())
	assert.Nil(t, leaves[0].Deleted())
	assert.False(t, IsDeleted(leaves[0], 1))

	leaf := NewLeaf(0, 10, 4, roaring.BitmapOf(1, 3))
	assert.True(t, IsDeleted(leaf, 1))
	assert.False(t, IsDeleted(leaf, 2))
	assert.True(t, IsDeleted(leaf, 3))
}
