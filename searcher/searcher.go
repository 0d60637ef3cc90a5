package searcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/lexgo/search"
	"github.com/hupe1980/lexgo/search/collector"
	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many documents are scored between context checks.
const ctxCheckInterval = 1024

// Weight creates the scorer of a query for one leaf.
type Weight interface {
	// Scorer returns nil, nil when the query cannot match in leaf.
	Scorer(ctx context.Context, leaf search.LeafReader) (search.Scorer, error)
}

// WeightFunc adapts a function to Weight.
type WeightFunc func(ctx context.Context, leaf search.LeafReader) (search.Scorer, error)

// Scorer implements Weight.
func (f WeightFunc) Scorer(ctx context.Context, leaf search.LeafReader) (search.Scorer, error) {
	return f(ctx, leaf)
}

// IndexSearcher searches a fixed set of leaves.
// It is safe for concurrent use.
type IndexSearcher struct {
	leaves []search.LeafReader
	opts   Options
}

// New creates an IndexSearcher over leaves.
func New(leaves []search.LeafReader, optFns ...func(o *Options)) *IndexSearcher {
	return &IndexSearcher{
		leaves: leaves,
		opts:   newOptions(optFns),
	}
}

// Leaves returns the leaves in search order.
func (s *IndexSearcher) Leaves() []search.LeafReader {
	return s.leaves
}

// TopDocs returns the k best hits for weight.
func (s *IndexSearcher) TopDocs(ctx context.Context, weight Weight, k int) (collector.TopDocs, error) {
	c, err := collector.NewTopDocsCollector(k, func(o *collector.Options) {
		o.ChannelBuffer = s.opts.CollectorBuffer
	})
	if err != nil {
		return collector.TopDocs{}, err
	}

	start := time.Now()
	err = s.Search(ctx, weight, c)
	top := c.TopDocs()

	s.opts.Metrics.RecordSearch(len(s.leaves), top.TotalHits, time.Since(start), err)
	s.opts.Logger.WithK(k).LogSearch(ctx, len(s.leaves), top.TotalHits, s.parallel(c), time.Since(start), err)

	if err != nil {
		return collector.TopDocs{}, err
	}
	return top, nil
}

// Search feeds every live matching document of every leaf to c.
func (s *IndexSearcher) Search(ctx context.Context, weight Weight, c collector.SearchCollector) error {
	if s.parallel(c) {
		return s.searchParallel(ctx, weight, c)
	}
	return s.searchSequential(ctx, weight, c)
}

func (s *IndexSearcher) parallel(c collector.SearchCollector) bool {
	return s.opts.Parallel && c.SupportParallel() && len(s.leaves) > 1
}

func (s *IndexSearcher) searchSequential(ctx context.Context, weight Weight, c collector.SearchCollector) error {
	for _, leaf := range s.leaves {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.SetNextReader(leaf.Ord(), leaf); err != nil {
			return err
		}
		scorer, err := weight.Scorer(ctx, leaf)
		if err != nil {
			return fmt.Errorf("leaf %d: %w", leaf.Ord(), err)
		}
		if scorer == nil {
			continue
		}
		if err := scoreLeaf(ctx, leaf, scorer, c); err != nil {
			return fmt.Errorf("leaf %d: %w", leaf.Ord(), err)
		}
	}
	return nil
}

func (s *IndexSearcher) searchParallel(ctx context.Context, weight Weight, c collector.SearchCollector) error {
	// Every producer must be registered before Finish starts draining.
	lcs := make([]collector.LeafCollector, 0, len(s.leaves))
	for _, leaf := range s.leaves {
		lc, err := c.LeafCollector(leaf)
		if err != nil {
			for _, r := range lcs {
				_ = r.FinishLeaf()
			}
			return errors.Join(err, c.Finish())
		}
		lcs = append(lcs, lc)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, leaf := range s.leaves {
		lc := lcs[i]
		g.Go(func() error {
			defer lc.FinishLeaf()

			if err := s.opts.Resources.AcquireWorker(gctx); err != nil {
				return err
			}
			defer s.opts.Resources.ReleaseWorker()

			scorer, err := weight.Scorer(gctx, leaf)
			if err != nil {
				return fmt.Errorf("leaf %d: %w", leaf.Ord(), err)
			}
			if scorer == nil {
				return nil
			}
			if err := scoreLeaf(gctx, leaf, scorer, lc); err != nil {
				return fmt.Errorf("leaf %d: %w", leaf.Ord(), err)
			}
			return nil
		})
	}

	// Finish consumes until every leaf collector is released.
	finishErr := c.Finish()
	return errors.Join(g.Wait(), finishErr)
}

func scoreLeaf(ctx context.Context, leaf search.LeafReader, scorer search.Scorer, c collector.Collector) error {
	deleted := leaf.Deleted()
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		doc, err := scorer.Next()
		if err != nil {
			return err
		}
		if doc == search.NoMoreDocs {
			return nil
		}
		if deleted != nil && deleted.Contains(uint32(doc)) {
			continue
		}
		if err := c.Collect(doc, scorer); err != nil {
			return err
		}
	}
}
