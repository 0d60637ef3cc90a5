package search

import (
	"testing"

	"github.com/hupe1980/lexgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostingFeature(t *testing.T) {
	tests := []struct {
		flags   PostingFeature
		feature PostingFeature
		want    bool
	}{
		{FeatureNone, FeatureFreqs, false},
		{FeatureFreqs, FeatureFreqs, true},
		{FeaturePositions, FeatureFreqs, true},
		{FeatureFreqs, FeaturePositions, false},
		{FeatureOffsets, FeaturePayloads, false},
		{FeaturePayloads, FeaturePositions, true},
		{FeatureAll, FeatureOffsets, true},
		{FeatureAll, FeaturePayloads, true},
		{FeatureOffsets | FeaturePayloads, FeatureAll, true},
		{FeatureAll, FeatureNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.flags.String()+"/"+tt.feature.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Requested(tt.feature))
		})
	}

	assert.Equal(t, PostingFeature(0b1111000), FeatureAll)
	assert.Equal(t, "none", FeatureNone.String())
	assert.Equal(t, "freqs|positions|offsets", FeatureOffsets.String())
}

func TestEmptyPostingIterator(t *testing.T) {
	var it PostingIterator = EmptyPostingIterator{}

	for i := 0; i < 3; i++ {
		assert.Equal(t, NoMoreDocs, it.DocID())
		assert.Equal(t, int64(0), it.Cost())

		doc, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, NoMoreDocs, doc)

		doc, err = it.Advance(int32(i))
		require.NoError(t, err)
		assert.Equal(t, NoMoreDocs, doc)

		freq, err := it.Freq()
		require.NoError(t, err)
		assert.Equal(t, int32(0), freq)

		pos, err := it.NextPosition()
		require.NoError(t, err)
		assert.Equal(t, int32(-1), pos)

		start, err := it.StartOffset()
		require.NoError(t, err)
		assert.Equal(t, int32(-1), start)

		end, err := it.EndOffset()
		require.NoError(t, err)
		assert.Equal(t, int32(-1), end)

		payload, err := it.Payload()
		require.NoError(t, err)
		assert.Empty(t, payload)
	}
}

func samplePostings() []Posting {
	return []Posting{
		{Doc: 2, Positions: []Position{{Pos: 0, StartOffset: 0, EndOffset: 3, Payload: []byte("a")}}},
		{Doc: 5, Freq: 2, Positions: []Position{{Pos: 1, StartOffset: 4, EndOffset: 7}, {Pos: 4, StartOffset: 12, EndOffset: 15, Payload: []byte("b")}}},
		{Doc: 9},
		{Doc: 40, Freq: 7},
	}
}

func TestMemoryPostings(t *testing.T) {
	t.Run("Iterate", func(t *testing.T) {
		it, err := NewMemoryPostings(samplePostings(), FeatureAll)
		require.NoError(t, err)
		assert.Equal(t, int32(-1), it.DocID())
		assert.Equal(t, int64(4), it.Cost())

		var docs []int32
		for {
			doc, err := it.Next()
			require.NoError(t, err)
			if doc == NoMoreDocs {
				break
			}
			docs = append(docs, doc)
		}
		assert.Equal(t, []int32{2, 5, 9, 40}, docs)

		doc, err := it.Next()
		require.NoError(t, err)
		assert.Equal(t, NoMoreDocs, doc)
	})

	t.Run("Advance", func(t *testing.T) {
		it, err := NewMemoryPostings(samplePostings(), FeatureNone)
		require.NoError(t, err)

		doc, err := it.Advance(3)
		require.NoError(t, err)
		assert.Equal(t, int32(5), doc)

		doc, err = it.Advance(9)
		require.NoError(t, err)
		assert.Equal(t, int32(9), doc)

		doc, err = it.Advance(41)
		require.NoError(t, err)
		assert.Equal(t, NoMoreDocs, doc)

		doc, err = it.Advance(100)
		require.NoError(t, err)
		assert.Equal(t, NoMoreDocs, doc)
	})

	t.Run("SlowAdvance", func(t *testing.T) {
		it, err := NewMemoryPostings(samplePostings(), FeatureNone)
		require.NoError(t, err)

		doc, err := SlowAdvance(it, 6)
		require.NoError(t, err)
		assert.Equal(t, int32(9), doc)
	})

	t.Run("AllFeatures", func(t *testing.T) {
		it, err := NewMemoryPostings(samplePostings(), FeatureAll)
		require.NoError(t, err)

		_, err = it.Advance(5)
		require.NoError(t, err)

		freq, err := it.Freq()
		require.NoError(t, err)
		assert.Equal(t, int32(2), freq)

		pos, _ := it.NextPosition()
		assert.Equal(t, int32(1), pos)
		start, _ := it.StartOffset()
		end, _ := it.EndOffset()
		assert.Equal(t, int32(4), start)
		assert.Equal(t, int32(7), end)
		payload, _ := it.Payload()
		assert.Empty(t, payload)

		pos, _ = it.NextPosition()
		assert.Equal(t, int32(4), pos)
		payload, _ = it.Payload()
		assert.Equal(t, []byte("b"), payload)

		pos, _ = it.NextPosition()
		assert.Equal(t, int32(-1), pos)
		start, _ = it.StartOffset()
		assert.Equal(t, int32(-1), start)
	})

	t.Run("ImplicitFreq", func(t *testing.T) {
		it, err := NewMemoryPostings(samplePostings(), FeatureFreqs)
		require.NoError(t, err)

		want := []int32{1, 2, 1, 7}
		for _, w := range want {
			_, err := it.Next()
			require.NoError(t, err)
			freq, err := it.Freq()
			require.NoError(t, err)
			assert.Equal(t, w, freq)
		}
	})

	t.Run("UnrequestedDetailIsSkipped", func(t *testing.T) {
		it, err := NewMemoryPostings(samplePostings(), FeatureNone)
		require.NoError(t, err)

		_, err = it.Advance(5)
		require.NoError(t, err)

		freq, err := it.Freq()
		require.NoError(t, err)
		assert.Equal(t, int32(1), freq)

		pos, _ := it.NextPosition()
		assert.Equal(t, int32(-1), pos)

		it, err = NewMemoryPostings(samplePostings(), FeaturePositions)
		require.NoError(t, err)
		_, err = it.Next()
		require.NoError(t, err)
		pos, _ = it.NextPosition()
		assert.Equal(t, int32(0), pos)
		start, _ := it.StartOffset()
		assert.Equal(t, int32(-1), start)
		payload, _ := it.Payload()
		assert.Nil(t, payload)
	})

	t.Run("Unpositioned", func(t *testing.T) {
		it, err := NewMemoryPostings(samplePostings(), FeatureFreqs)
		require.NoError(t, err)

		_, err = it.Freq()
		assert.ErrorIs(t, err, lexgo.ErrIllegalState)
	})

	t.Run("Unsorted", func(t *testing.T) {
		_, err := NewMemoryPostings([]Posting{{Doc: 3}, {Doc: 3}}, FeatureNone)
		assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)

		_, err = NewMemoryPostings([]Posting{{Doc: -1}}, FeatureNone)
		assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)
	})
}
