package search

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// LeafReader describes one segment of a multi-segment index.
type LeafReader interface {
	// Ord is the position of the segment within its index.
	Ord() int
	// DocBase is added to segment-local doc ids to form global ids.
	DocBase() int32
	// MaxDoc is one greater than the largest segment-local doc id.
	MaxDoc() int32
	// Deleted returns the deleted local doc ids, or nil if there are none.
	Deleted() *roaring.Bitmap
}

// Leaf is a plain LeafReader.
type Leaf struct {
	ord     int
	docBase int32
	maxDoc  int32
	deleted *roaring.Bitmap
}

var _ LeafReader = (*Leaf)(nil)

// NewLeaf returns a LeafReader. deleted may be nil.
func NewLeaf(ord int, docBase, maxDoc int32, deleted *roaring.Bitmap) *Leaf {
	return &Leaf{ord: ord, docBase: docBase, maxDoc: maxDoc, deleted: deleted}
}

// NewLeaves builds consecutive leaves without deletions whose doc bases are
// the running sum of maxDocs.
func NewLeaves(maxDocs ...int32) []LeafReader {
	leaves := make([]LeafReader, len(maxDocs))
	var base int32
	for i, n := range maxDocs {
		leaves[i] = NewLeaf(i, base, n, nil)
		base += n
	}
	return leaves
}

func (l *Leaf) Ord() int                 { return l.ord }
func (l *Leaf) DocBase() int32           { return l.docBase }
func (l *Leaf) MaxDoc() int32            { return l.maxDoc }
func (l *Leaf) Deleted() *roaring.Bitmap { return l.deleted }

// IsDeleted reports whether the local doc id is marked deleted in leaf.
func IsDeleted(leaf LeafReader, doc int32) bool {
	d := leaf.Deleted()
	return d != nil && doc >= 0 && d.Contains(uint32(doc))
}
