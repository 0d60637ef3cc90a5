package search

import "strings"

// PostingFeature selects the per-document detail a consumer needs from a
// posting iterator. Features compose with OR.
type PostingFeature uint16

const (
	// FeatureNone requests doc ids only.
	FeatureNone PostingFeature = 0
	// FeatureFreqs requests term frequencies.
	FeatureFreqs PostingFeature = 1 << 3
	// FeaturePositions requests positions (implies frequencies).
	FeaturePositions PostingFeature = FeatureFreqs | 1<<4
	// FeatureOffsets requests start/end offsets (implies positions).
	FeatureOffsets PostingFeature = FeaturePositions | 1<<5
	// FeaturePayloads requests payloads (implies positions).
	FeaturePayloads PostingFeature = FeaturePositions | 1<<6
	// FeatureAll requests everything.
	FeatureAll PostingFeature = FeatureOffsets | FeaturePayloads
)

// Requested reports whether every bit of feature is set in f.
func (f PostingFeature) Requested(feature PostingFeature) bool {
	return f&feature == feature
}

func (f PostingFeature) String() string {
	if f == FeatureNone {
		return "none"
	}
	var parts []string
	for _, x := range []struct {
		f    PostingFeature
		name string
	}{
		{FeatureFreqs, "freqs"},
		{FeaturePositions, "positions"},
		{FeatureOffsets, "offsets"},
		{FeaturePayloads, "payloads"},
	} {
		if f.Requested(x.f) {
			parts = append(parts, x.name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// PostingIterator extends DocIterator with per-document term detail.
//
// Freq is only meaningful between a successful advance and exhaustion.
// NextPosition returns -1 once the current document's positions are
// exhausted or when positions were not indexed; it must not be called more
// than Freq times per document. Offsets are -1 when unavailable and Payload
// is empty when the current position carries none.
type PostingIterator interface {
	DocIterator

	Freq() (int32, error)
	NextPosition() (int32, error)
	StartOffset() (int32, error)
	EndOffset() (int32, error)
	Payload() ([]byte, error)
}

// EmptyPostingIterator is the posting iterator of a term that does not
// exist. It is stateless: DocID reports NoMoreDocs from the start, so the
// zero value can be passed around without allocating.
type EmptyPostingIterator struct{}

var _ PostingIterator = EmptyPostingIterator{}

func (EmptyPostingIterator) DocID() int32                 { return NoMoreDocs }
func (EmptyPostingIterator) Next() (int32, error)         { return NoMoreDocs, nil }
func (EmptyPostingIterator) Advance(int32) (int32, error) { return NoMoreDocs, nil }
func (EmptyPostingIterator) Cost() int64                  { return 0 }
func (EmptyPostingIterator) Freq() (int32, error)         { return 0, nil }
func (EmptyPostingIterator) NextPosition() (int32, error) { return -1, nil }
func (EmptyPostingIterator) StartOffset() (int32, error)  { return -1, nil }
func (EmptyPostingIterator) EndOffset() (int32, error)    { return -1, nil }
func (EmptyPostingIterator) Payload() ([]byte, error)     { return nil, nil }
