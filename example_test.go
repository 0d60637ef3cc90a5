package lexgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/codec/norms"
	"github.com/hupe1980/lexgo/search"
	"github.com/hupe1980/lexgo/search/collector"
	"github.com/hupe1980/lexgo/searcher"
	"github.com/hupe1980/lexgo/store"
)

// Example_norms writes the norms of a three-document segment and reads them back.
func Example_norms() {
	ctx := context.Background()
	dir := store.NewMemoryDirectory()
	si := codec.SegmentInfo{Name: "_0", ID: codec.NewSegmentID(), MaxDoc: 3}
	body := codec.FieldInfo{Name: "body", Number: 0}

	w, err := norms.NewWriter(ctx, codec.SegmentWriteState{Directory: dir, SegmentInfo: si})
	if err != nil {
		log.Fatal(err)
	}
	if err := w.AddField(body, codec.NewSliceIterator([]int64{7, 3, 12})); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}

	r, err := norms.Open(ctx, codec.SegmentReadState{Directory: dir, SegmentInfo: si})
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	values, err := r.Norms(body)
	if err != nil {
		log.Fatal(err)
	}
	for doc := int32(0); doc < r.MaxDoc(); doc++ {
		v, _ := values.Get(doc)
		fmt.Println(doc, v)
	}
	// Output:
	// 0 7
	// 1 3
	// 2 12
}

// Example_topDocs collects the best two hits of a term across two segments.
func Example_topDocs() {
	segmentPostings := [][]search.Posting{
		{{Doc: 0, Freq: 1}, {Doc: 2, Freq: 4}},
		{{Doc: 1, Freq: 2}},
	}
	stats := search.TermStats{DocFreq: 3, DocCount: 8, AvgFieldLength: 1}

	weight := searcher.WeightFunc(func(_ context.Context, leaf search.LeafReader) (search.Scorer, error) {
		it, err := search.NewMemoryPostings(segmentPostings[leaf.Ord()], search.FeatureFreqs)
		if err != nil {
			return nil, err
		}
		return search.NewTermScorer(it, search.FeatureFreqs, nil, stats, search.DefaultBM25)
	})

	s := searcher.New(search.NewLeaves(4, 4), func(o *searcher.Options) {
		o.Parallel = true
	})

	top, err := s.TopDocs(context.Background(), weight, 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("total hits:", top.TotalHits)
	for _, sd := range top.ScoreDocs {
		fmt.Println("doc:", sd.Doc)
	}
	// Output:
	// total hits: 3
	// doc: 2
	// doc: 5
}

// Example_collector drives a TopDocsCollector by hand.
func Example_collector() {
	c, err := collector.NewTopDocsCollector(1)
	if err != nil {
		log.Fatal(err)
	}

	leaf := search.NewLeaf(0, 100, 10, nil)
	if err := c.SetNextReader(0, leaf); err != nil {
		log.Fatal(err)
	}

	it, _ := search.NewMemoryPostings([]search.Posting{{Doc: 3, Freq: 1}, {Doc: 7, Freq: 9}}, search.FeatureFreqs)
	scorer, _ := search.NewTermScorer(it, search.FeatureFreqs, nil, search.TermStats{DocFreq: 2, DocCount: 10, AvgFieldLength: 1}, search.DefaultBM25)
	for {
		doc, _ := scorer.Next()
		if doc == search.NoMoreDocs {
			break
		}
		if err := c.Collect(doc, scorer); err != nil {
			log.Fatal(err)
		}
	}

	top := c.TopDocs()
	fmt.Println(top.TotalHits, top.ScoreDocs[0].Doc)
	// Output: 2 107
}
