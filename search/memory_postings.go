package search

import (
	"fmt"
	"sort"

	"github.com/hupe1980/lexgo"
)

// Position is a single occurrence of a term inside a document.
type Position struct {
	Pos         int32
	StartOffset int32
	EndOffset   int32
	Payload     []byte
}

// Posting is the postings entry of one document.
type Posting struct {
	Doc int32
	// Freq is the term frequency. Zero means len(Positions), or 1 when no
	// positions are recorded.
	Freq      int32
	Positions []Position
}

func (p *Posting) freq() int32 {
	switch {
	case p.Freq > 0:
		return p.Freq
	case len(p.Positions) > 0:
		return int32(len(p.Positions))
	default:
		return 1
	}
}

// MemoryPostings is a PostingIterator over an in-memory, doc-ordered
// postings list. Only the requested features are exposed.
type MemoryPostings struct {
	postings []Posting
	flags    PostingFeature
	idx      int
	pos      int
}

var _ PostingIterator = (*MemoryPostings)(nil)

// NewMemoryPostings returns an iterator over postings, which must be sorted
// by strictly increasing doc id. The slice is not copied.
func NewMemoryPostings(postings []Posting, flags PostingFeature) (*MemoryPostings, error) {
	for i := range postings {
		if postings[i].Doc < 0 || postings[i].Doc == NoMoreDocs {
			return nil, fmt.Errorf("%w: doc id %d out of range", lexgo.ErrIllegalArgument, postings[i].Doc)
		}
		if i > 0 && postings[i].Doc <= postings[i-1].Doc {
			return nil, fmt.Errorf("%w: postings not sorted at index %d", lexgo.ErrIllegalArgument, i)
		}
	}
	return &MemoryPostings{postings: postings, flags: flags, idx: -1, pos: -1}, nil
}

// Flags returns the features this iterator was opened with.
func (m *MemoryPostings) Flags() PostingFeature {
	return m.flags
}

func (m *MemoryPostings) DocID() int32 {
	switch {
	case m.idx < 0:
		return -1
	case m.idx >= len(m.postings):
		return NoMoreDocs
	}
	return m.postings[m.idx].Doc
}

func (m *MemoryPostings) Next() (int32, error) {
	if m.idx < len(m.postings) {
		m.idx++
	}
	m.pos = -1
	return m.DocID(), nil
}

// Advance binary searches the remaining postings.
func (m *MemoryPostings) Advance(target int32) (int32, error) {
	from := m.idx + 1
	if from > len(m.postings) {
		from = len(m.postings)
	}
	rest := m.postings[from:]
	m.idx = from + sort.Search(len(rest), func(i int) bool {
		return rest[i].Doc >= target
	})
	m.pos = -1
	return m.DocID(), nil
}

func (m *MemoryPostings) Cost() int64 {
	return int64(len(m.postings))
}

func (m *MemoryPostings) current() (*Posting, error) {
	if m.idx < 0 || m.idx >= len(m.postings) {
		return nil, fmt.Errorf("%w: iterator not positioned on a document", lexgo.ErrIllegalState)
	}
	return &m.postings[m.idx], nil
}

// Freq returns 1 when frequencies were not requested.
func (m *MemoryPostings) Freq() (int32, error) {
	p, err := m.current()
	if err != nil {
		return 0, err
	}
	if !m.flags.Requested(FeatureFreqs) {
		return 1, nil
	}
	return p.freq(), nil
}

func (m *MemoryPostings) NextPosition() (int32, error) {
	p, err := m.current()
	if err != nil {
		return -1, err
	}
	if !m.flags.Requested(FeaturePositions) || m.pos+1 >= len(p.Positions) {
		m.pos = len(p.Positions)
		return -1, nil
	}
	m.pos++
	return p.Positions[m.pos].Pos, nil
}

func (m *MemoryPostings) position(feature PostingFeature) *Position {
	if !m.flags.Requested(feature) || m.idx < 0 || m.idx >= len(m.postings) {
		return nil
	}
	p := &m.postings[m.idx]
	if m.pos < 0 || m.pos >= len(p.Positions) {
		return nil
	}
	return &p.Positions[m.pos]
}

func (m *MemoryPostings) StartOffset() (int32, error) {
	if p := m.position(FeatureOffsets); p != nil {
		return p.StartOffset, nil
	}
	return -1, nil
}

func (m *MemoryPostings) EndOffset() (int32, error) {
	if p := m.position(FeatureOffsets); p != nil {
		return p.EndOffset, nil
	}
	return -1, nil
}

func (m *MemoryPostings) Payload() ([]byte, error) {
	if p := m.position(FeaturePayloads); p != nil {
		return p.Payload, nil
	}
	return nil, nil
}
