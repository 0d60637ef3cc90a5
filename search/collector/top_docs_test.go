package collector_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/search"
	"github.com/hupe1980/lexgo/search/collector"
	"github.com/hupe1980/lexgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectAll(t *testing.T, c collector.Collector, scorer search.Scorer) {
	t.Helper()
	for {
		doc, err := scorer.Next()
		require.NoError(t, err)
		if doc == search.NoMoreDocs {
			return
		}
		require.NoError(t, c.Collect(doc, scorer))
	}
}

func TestTopDocsCollector(t *testing.T) {
	c, err := collector.NewTopDocsCollector(3)
	require.NoError(t, err)

	leaf := search.NewLeaf(0, 0, 6, nil)
	require.NoError(t, c.SetNextReader(0, leaf))

	scorer := testutil.NewScriptedScorer([]int32{1, 2, 3, 4, 5}, []float32{1, 2, 3, 3, 5})
	collectAll(t, c, scorer)

	top := c.TopDocs()
	assert.Equal(t, 5, top.TotalHits)
	require.Len(t, top.ScoreDocs, 3)
	assert.Equal(t, collector.ScoreDoc{Doc: 5, Score: 5}, top.ScoreDocs[0])
	assert.Equal(t, float32(3), top.ScoreDocs[1].Score)
	assert.Equal(t, float32(3), top.ScoreDocs[2].Score)
	assert.ElementsMatch(t, []int32{3, 4}, []int32{top.ScoreDocs[1].Doc, top.ScoreDocs[2].Doc})

	// TopDocs does not consume the collector.
	assert.Equal(t, top, c.TopDocs())
}

func TestTopDocsCollectorDocBase(t *testing.T) {
	c, err := collector.NewTopDocsCollector(10)
	require.NoError(t, err)

	leaves := search.NewLeaves(4, 4)
	for i, leaf := range leaves {
		require.NoError(t, c.SetNextReader(i, leaf))
		collectAll(t, c, testutil.NewScriptedScorer([]int32{0, 3}, []float32{float32(i) + 1, float32(i) + 0.5}))
	}

	top := c.TopDocs()
	assert.Equal(t, 4, top.TotalHits)
	assert.Equal(t, []collector.ScoreDoc{
		{Doc: 4, Score: 2},
		{Doc: 7, Score: 1.5},
		{Doc: 0, Score: 1},
		{Doc: 3, Score: 0.5},
	}, top.ScoreDocs)
}

func TestTopDocsCollectorFewerHitsThanK(t *testing.T) {
	c, err := collector.NewTopDocsCollector(5)
	require.NoError(t, err)
	require.NoError(t, c.SetNextReader(0, search.NewLeaf(0, 0, 3, nil)))

	collectAll(t, c, testutil.NewScriptedScorer([]int32{0, 2}, []float32{1, 2}))

	top := c.TopDocs()
	assert.Equal(t, 2, top.TotalHits)
	assert.Len(t, top.ScoreDocs, 2)

	empty, err := collector.NewTopDocsCollector(5)
	require.NoError(t, err)
	assert.Empty(t, empty.TopDocs().ScoreDocs)
}

func TestTopDocsCollectorValidation(t *testing.T) {
	_, err := collector.NewTopDocsCollector(0)
	assert.ErrorIs(t, err, collector.ErrInvalidK)
	assert.ErrorIs(t, err, lexgo.ErrIllegalArgument)

	c, err := collector.NewTopDocsCollector(2)
	require.NoError(t, err)

	scorer := testutil.NewScriptedScorer([]int32{0}, []float32{1})
	_, _ = scorer.Next()
	assert.ErrorIs(t, c.Collect(0, scorer), lexgo.ErrIllegalState)

	require.NoError(t, c.SetNextReader(0, search.NewLeaf(0, 0, 2, nil)))
	for _, bad := range []float32{float32(math.NaN()), float32(math.Inf(-1))} {
		s := testutil.NewScriptedScorer([]int32{1}, []float32{bad})
		_, _ = s.Next()
		err := c.Collect(1, s)
		assert.ErrorIs(t, err, collector.ErrInvalidScore)
		assert.ErrorIs(t, err, lexgo.ErrIllegalState)
	}

	s := testutil.NewScriptedScorer([]int32{1}, []float32{1})
	s.ScoreErr = errors.New("boom")
	_, _ = s.Next()
	assert.EqualError(t, c.Collect(1, s), "boom")

	assert.Equal(t, 0, c.TotalHits())
}

func TestTopDocsCollectorParallel(t *testing.T) {
	const (
		segments = 8
		perSeg   = 500
		k        = 25
	)

	rng := testutil.NewRNG(4711)
	maxDocs := make([]int32, segments)
	for i := range maxDocs {
		maxDocs[i] = perSeg
	}
	leaves := search.NewLeaves(maxDocs...)

	type segmentInput struct {
		docs   []int32
		scores []float32
	}
	inputs := make([]segmentInput, segments)
	var all []testutil.ScoredDoc
	for i, leaf := range leaves {
		docs := rng.Docs(perSeg, 0.5)
		scores := rng.Scores(len(docs))
		for j := range scores {
			// Disjoint score bands per segment keep every score distinct.
			scores[j] += float32(i * perSeg)
		}
		inputs[i] = segmentInput{docs: docs, scores: scores}
		for j, d := range docs {
			all = append(all, testutil.ScoredDoc{Doc: d + leaf.DocBase(), Score: scores[j]})
		}
	}

	sequential, err := collector.NewTopDocsCollector(k)
	require.NoError(t, err)
	for i, leaf := range leaves {
		require.NoError(t, sequential.SetNextReader(i, leaf))
		collectAll(t, sequential, testutil.NewScriptedScorer(inputs[i].docs, inputs[i].scores))
	}

	parallel, err := collector.NewTopDocsCollector(k, func(o *collector.Options) {
		o.ChannelBuffer = 16
	})
	require.NoError(t, err)

	leafCollectors := make([]collector.LeafCollector, segments)
	for i, leaf := range leaves {
		leafCollectors[i], err = parallel.LeafCollector(leaf)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make([]error, segments)
	for i := range leaves {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lc := leafCollectors[i]
			defer lc.FinishLeaf()

			scorer := testutil.NewScriptedScorer(inputs[i].docs, inputs[i].scores)
			for {
				doc, err := scorer.Next()
				if err != nil || doc == search.NoMoreDocs {
					errs[i] = err
					return
				}
				if err := lc.Collect(doc, scorer); err != nil {
					errs[i] = err
					return
				}
			}
		}(i)
	}

	require.NoError(t, parallel.Finish())
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	want := testutil.ExactTopK(all, k)
	wantDocs := make([]collector.ScoreDoc, len(want))
	for i, w := range want {
		wantDocs[i] = collector.ScoreDoc{Doc: w.Doc, Score: w.Score}
	}

	seqTop := sequential.TopDocs()
	parTop := parallel.TopDocs()
	assert.Equal(t, len(all), parTop.TotalHits)
	assert.Equal(t, seqTop.TotalHits, parTop.TotalHits)
	assert.Equal(t, wantDocs, parTop.ScoreDocs)
	assert.Equal(t, seqTop.ScoreDocs, parTop.ScoreDocs)
}

func TestLeafCollectorLifecycle(t *testing.T) {
	c, err := collector.NewTopDocsCollector(2)
	require.NoError(t, err)
	assert.True(t, c.SupportParallel())

	lc, err := c.LeafCollector(search.NewLeaf(1, 10, 5, nil))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Finish() }()

	scorer := testutil.NewScriptedScorer([]int32{2}, []float32{4})
	_, _ = scorer.Next()
	require.NoError(t, lc.Collect(2, scorer))
	require.NoError(t, lc.FinishLeaf())
	require.NoError(t, lc.FinishLeaf())

	assert.ErrorIs(t, lc.Collect(2, scorer), lexgo.ErrChannelFailure)

	require.NoError(t, <-done)
	top := c.TopDocs()
	assert.Equal(t, 1, top.TotalHits)
	assert.Equal(t, []collector.ScoreDoc{{Doc: 12, Score: 4}}, top.ScoreDocs)

	_, err = c.LeafCollector(search.NewLeaf(2, 15, 5, nil))
	assert.ErrorIs(t, err, lexgo.ErrIllegalState)
}

func TestFinishWithoutLeafCollectors(t *testing.T) {
	c, err := collector.NewTopDocsCollector(2)
	require.NoError(t, err)
	assert.NoError(t, c.Finish())
	assert.Equal(t, 0, c.TopDocs().TotalHits)
}

func TestLeafCollectorsCompleteBeforeFinish(t *testing.T) {
	const (
		segments = 3
		perSeg   = 3000 // well past the default queue capacity
		k        = 5
	)

	c, err := collector.NewTopDocsCollector(k)
	require.NoError(t, err)

	leaves := search.NewLeaves(perSeg, perSeg, perSeg)
	var all []testutil.ScoredDoc
	for i, leaf := range leaves {
		lc, err := c.LeafCollector(leaf)
		require.NoError(t, err)

		docs := make([]int32, perSeg)
		scores := make([]float32, perSeg)
		for j := range docs {
			docs[j] = int32(j)
			scores[j] = float32(i*perSeg + j)
			all = append(all, testutil.ScoredDoc{Doc: int32(j) + leaf.DocBase(), Score: scores[j]})
		}

		scorer := testutil.NewScriptedScorer(docs, scores)
		for {
			doc, err := scorer.Next()
			require.NoError(t, err)
			if doc == search.NoMoreDocs {
				break
			}
			require.NoError(t, lc.Collect(doc, scorer))
		}
		require.NoError(t, lc.FinishLeaf())
	}

	require.NoError(t, c.Finish())

	top := c.TopDocs()
	assert.Equal(t, segments*perSeg, top.TotalHits)
	want := testutil.ExactTopK(all, k)
	require.Len(t, top.ScoreDocs, k)
	for i, w := range want {
		assert.Equal(t, collector.ScoreDoc{Doc: w.Doc, Score: w.Score}, top.ScoreDocs[i])
	}
}

func TestFinishWaitsForUnreleasedLeaf(t *testing.T) {
	c, err := collector.NewTopDocsCollector(1, func(o *collector.Options) {
		o.ChannelBuffer = 1
	})
	require.NoError(t, err)

	lc, err := c.LeafCollector(search.NewLeaf(0, 0, 10, nil))
	require.NoError(t, err)

	scorer := testutil.NewScriptedScorer([]int32{1, 2, 3}, []float32{1, 2, 3})
	for range 2 {
		_, _ = scorer.Next()
		require.NoError(t, lc.Collect(scorer.DocID(), scorer))
	}

	done := make(chan error, 1)
	go func() { done <- c.Finish() }()

	_, _ = scorer.Next()
	require.NoError(t, lc.Collect(scorer.DocID(), scorer))
	require.NoError(t, lc.FinishLeaf())

	require.NoError(t, <-done)
	top := c.TopDocs()
	assert.Equal(t, 3, top.TotalHits)
	assert.Equal(t, []collector.ScoreDoc{{Doc: 3, Score: 3}}, top.ScoreDocs)
}
