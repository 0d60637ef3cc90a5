package codec

import (
	"github.com/google/uuid"

	"github.com/hupe1980/lexgo/store"
)

// SegmentInfo is the metadata of one segment needed by codecs.
type SegmentInfo struct {
	// Name is the segment name, e.g. "_0".
	Name string
	// ID is unique per segment write; files of the segment embed it in their
	// headers so files from different segments cannot be mixed up.
	ID [IDLength]byte
	// MaxDoc is the number of documents in the segment.
	MaxDoc int32
}

// NewSegmentID returns a random segment id.
func NewSegmentID() [IDLength]byte {
	return uuid.New()
}

// IDString formats the segment id for logs.
func (si SegmentInfo) IDString() string {
	return uuid.UUID(si.ID).String()
}

// SegmentWriteState is handed to codec writers during a segment flush.
type SegmentWriteState struct {
	Directory     store.Directory
	SegmentInfo   SegmentInfo
	SegmentSuffix string
}

// SegmentReadState is handed to codec readers when a segment is opened.
type SegmentReadState struct {
	Directory     store.Directory
	SegmentInfo   SegmentInfo
	SegmentSuffix string
}

// SegmentFileName returns "<name>[_<suffix>][.<ext>]".
func SegmentFileName(name, suffix, ext string) string {
	if suffix != "" {
		name += "_" + suffix
	}
	if ext != "" {
		name += "." + ext
	}
	return name
}

// FieldInfo identifies an indexed field.
type FieldInfo struct {
	Name   string
	Number int32
}
