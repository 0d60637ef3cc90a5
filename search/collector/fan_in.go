package collector

import "sync"

// fanIn is an unbounded many-producer, single-consumer queue of hits.
// Producers never block on the consumer. The consumer drains batches until
// every producer has been released.
type fanIn struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []ScoreDoc
	spare   []ScoreDoc
	open    int
}

func newFanIn(capacity int) *fanIn {
	f := &fanIn{pending: make([]ScoreDoc, 0, capacity)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// register adds a producer. Producers must all be registered before drain
// starts.
func (f *fanIn) register() {
	f.mu.Lock()
	f.open++
	f.mu.Unlock()
}

func (f *fanIn) send(sd ScoreDoc) {
	f.mu.Lock()
	f.pending = append(f.pending, sd)
	f.mu.Unlock()
	f.cond.Signal()
}

func (f *fanIn) release() {
	f.mu.Lock()
	f.open--
	f.mu.Unlock()
	f.cond.Signal()
}

// drain hands every hit to fn, batch by batch, until the last producer is
// released.
func (f *fanIn) drain(fn func(ScoreDoc)) {
	f.mu.Lock()
	for {
		for len(f.pending) == 0 && f.open > 0 {
			f.cond.Wait()
		}
		batch := f.pending
		f.pending = f.spare[:0]
		done := f.open == 0
		f.mu.Unlock()

		for _, sd := range batch {
			fn(sd)
		}
		if done {
			return
		}

		f.mu.Lock()
		f.spare = batch
	}
}
