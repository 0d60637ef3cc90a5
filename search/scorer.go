package search

// Scorer is a DocIterator that can score its current document.
type Scorer interface {
	DocIterator

	// Score returns the score of the current document. Implementations must
	// never return NaN or negative infinity.
	Score() (float32, error)
}

// NumericDocValues gives random access to one int64 per document.
type NumericDocValues interface {
	Get(doc int32) (int64, error)
}
