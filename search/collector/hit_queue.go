package collector

// hitQueue is a value-based min-heap of ScoreDocs. The root is the weakest
// hit: the lowest score, and among equal scores the highest doc id.
type hitQueue struct {
	items []ScoreDoc
}

func newHitQueue(capacity int) hitQueue {
	return hitQueue{items: make([]ScoreDoc, 0, min(capacity, 1024))}
}

func (q *hitQueue) len() int {
	return len(q.items)
}

func (q *hitQueue) top() (ScoreDoc, bool) {
	if len(q.items) == 0 {
		return ScoreDoc{}, false
	}
	return q.items[0], true
}

func (q *hitQueue) less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Doc > b.Doc
}

func (q *hitQueue) push(sd ScoreDoc) {
	q.items = append(q.items, sd)
	q.siftUp(len(q.items) - 1)
}

// pushBounded inserts sd while the queue holds fewer than capacity hits.
// Once full, sd replaces the root only if its score is strictly greater.
func (q *hitQueue) pushBounded(sd ScoreDoc, capacity int) {
	if len(q.items) < capacity {
		q.push(sd)
		return
	}
	if root, ok := q.top(); ok && sd.Score > root.Score {
		q.items[0] = sd
		q.siftDown(0)
	}
}

// pop removes and returns the weakest hit.
func (q *hitQueue) pop() (ScoreDoc, bool) {
	n := len(q.items)
	if n == 0 {
		return ScoreDoc{}, false
	}

	sd := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]

	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return sd, true
}

func (q *hitQueue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(i, parent) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *hitQueue) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && q.less(right, left) {
			child = right
		}
		if !q.less(child, i) {
			break
		}
		q.items[i], q.items[child] = q.items[child], q.items[i]
		i = child
	}
}
