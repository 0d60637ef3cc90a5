package collector

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/search"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = fmt.Errorf("%w: k must be positive", lexgo.ErrIllegalArgument)

	// ErrInvalidScore is returned when a scorer produces NaN or negative infinity.
	ErrInvalidScore = fmt.Errorf("%w: score is NaN or negative infinity", lexgo.ErrIllegalState)
)

// ScoreDoc is a scored global doc id.
type ScoreDoc struct {
	Doc   int32
	Score float32
}

// TopDocs is the result of a top-K search.
type TopDocs struct {
	// TotalHits counts every collected document, including those that did
	// not make it into ScoreDocs.
	TotalHits int
	// ScoreDocs holds at most K hits, highest score first.
	ScoreDocs []ScoreDoc
}

// Options configures a TopDocsCollector.
type Options struct {
	// ChannelBuffer is the initial capacity of the queue shared by leaf
	// collectors. The queue grows past it, so producers never block.
	ChannelBuffer int
}

// DefaultOptions are the default collector options.
var DefaultOptions = Options{
	ChannelBuffer: 1024,
}

// TopDocsCollector keeps the K highest scoring documents.
//
// Sequential use: SetNextReader, then Collect for every document of that
// segment. Parallel use: one LeafCollector per segment plus one concurrent
// call to Finish.
type TopDocsCollector struct {
	k         int
	queue     hitQueue
	totalHits int
	docBase   int32
	hasReader bool

	mu        sync.Mutex
	fan       *fanIn
	finishing bool
	opts      Options
}

var _ SearchCollector = (*TopDocsCollector)(nil)

// NewTopDocsCollector creates a collector retaining the best k hits.
func NewTopDocsCollector(k int, optFns ...func(o *Options)) (*TopDocsCollector, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChannelBuffer < 0 {
		opts.ChannelBuffer = 0
	}

	return &TopDocsCollector{
		k:     k,
		queue: newHitQueue(k),
		opts:  opts,
	}, nil
}

// K returns the capacity of the collector.
func (c *TopDocsCollector) K() int {
	return c.k
}

// TotalHits returns the number of documents merged so far.
func (c *TopDocsCollector) TotalHits() int {
	return c.totalHits
}

// SetNextReader implements SearchCollector.
func (c *TopDocsCollector) SetNextReader(_ int, leaf search.LeafReader) error {
	c.docBase = leaf.DocBase()
	c.hasReader = true
	return nil
}

// SupportParallel implements SearchCollector.
func (c *TopDocsCollector) SupportParallel() bool {
	return true
}

// Collect implements Collector for sequential searches.
func (c *TopDocsCollector) Collect(doc int32, scorer search.Scorer) error {
	if !c.hasReader {
		return fmt.Errorf("%w: Collect called before SetNextReader", lexgo.ErrIllegalState)
	}
	score, err := score(scorer)
	if err != nil {
		return err
	}
	c.add(doc+c.docBase, score)
	return nil
}

// LeafCollector implements SearchCollector.
func (c *TopDocsCollector) LeafCollector(leaf search.LeafReader) (LeafCollector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finishing {
		return nil, fmt.Errorf("%w: leaf collector requested after Finish", lexgo.ErrIllegalState)
	}
	if c.fan == nil {
		c.fan = newFanIn(c.opts.ChannelBuffer)
	}
	c.fan.register()

	return &leafCollector{
		docBase: leaf.DocBase(),
		fan:     c.fan,
	}, nil
}

// Finish implements SearchCollector. It merges hits until every leaf
// collector has been released, whether the leaves ran before Finish or
// concurrently with it. Calling it without leaf collectors is a no-op.
func (c *TopDocsCollector) Finish() error {
	c.mu.Lock()
	c.finishing = true
	fan := c.fan
	c.fan = nil
	c.mu.Unlock()

	if fan == nil {
		return nil
	}

	fan.drain(func(sd ScoreDoc) {
		c.add(sd.Doc, sd.Score)
	})
	return nil
}

func (c *TopDocsCollector) add(doc int32, score float32) {
	c.totalHits++
	c.queue.pushBounded(ScoreDoc{Doc: doc, Score: score}, c.k)
}

// TopDocs returns the collected hits, highest score first. Equal scores are
// ordered by ascending doc id. The collector is left unchanged.
func (c *TopDocsCollector) TopDocs() TopDocs {
	n := min(c.k, c.totalHits, c.queue.len())

	q := hitQueue{items: append([]ScoreDoc(nil), c.queue.items...)}
	docs := make([]ScoreDoc, n)
	for i := n - 1; i >= 0; i-- {
		docs[i], _ = q.pop()
	}

	return TopDocs{TotalHits: c.totalHits, ScoreDocs: docs}
}

type leafCollector struct {
	docBase  int32
	fan      *fanIn
	released atomic.Bool
}

func (l *leafCollector) Collect(doc int32, scorer search.Scorer) error {
	if l.released.Load() {
		return fmt.Errorf("%w: collect after FinishLeaf", lexgo.ErrChannelFailure)
	}
	score, err := score(scorer)
	if err != nil {
		return err
	}
	l.fan.send(ScoreDoc{Doc: doc + l.docBase, Score: score})
	return nil
}

func (l *leafCollector) FinishLeaf() error {
	if l.released.CompareAndSwap(false, true) {
		l.fan.release()
	}
	return nil
}

func score(scorer search.Scorer) (float32, error) {
	s, err := scorer.Score()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(float64(s)) || math.IsInf(float64(s), -1) {
		return 0, fmt.Errorf("%w: doc %d scored %v", ErrInvalidScore, scorer.DocID(), s)
	}
	return s, nil
}
