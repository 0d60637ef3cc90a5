package norms

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/search"
	"github.com/hupe1980/lexgo/store"
)

// Reader serves the norms written by Writer. It is safe for concurrent use
// once opened.
type Reader struct {
	data   *store.MMapInput
	fields map[int32]search.NumericDocValues
	slices []*store.MMapInput
	maxDoc int32
}

// Open validates the norms files of state's segment and loads the field
// directory. Both files must carry the segment's id and suffix.
func Open(ctx context.Context, state codec.SegmentReadState, optFns ...func(o *Options)) (_ *Reader, err error) {
	opts := newOptions(optFns)
	si := state.SegmentInfo
	logger := opts.Logger.WithSegment(si.Name)

	r := &Reader{
		fields: make(map[int32]search.NumericDocValues),
		maxDoc: si.MaxDoc,
	}
	defer func() {
		if err != nil {
			_ = r.Close()
			logger.ErrorContext(ctx, "norms open failed", "error", err)
		}
	}()

	metaName := codec.SegmentFileName(si.Name, state.SegmentSuffix, MetaExtension)
	meta, err := state.Directory.OpenInput(ctx, metaName)
	if err != nil {
		return nil, err
	}
	defer meta.Close()

	if _, err = codec.CheckFooter(meta); err != nil {
		return nil, err
	}
	if _, err = codec.CheckIndexHeader(meta, MetaCodec, VersionStart, VersionCurrent, si.ID, state.SegmentSuffix); err != nil {
		return nil, err
	}

	dataName := codec.SegmentFileName(si.Name, state.SegmentSuffix, DataExtension)
	if r.data, err = state.Directory.OpenInput(ctx, dataName); err != nil {
		return nil, err
	}
	if opts.VerifyChecksums {
		if _, err = codec.CheckFooter(r.data); err != nil {
			return nil, err
		}
	}
	if _, err = codec.CheckIndexHeader(r.data, DataCodec, VersionStart, VersionCurrent, si.ID, state.SegmentSuffix); err != nil {
		return nil, err
	}

	if err = r.readFields(meta); err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "norms opened", "fields", len(r.fields))
	return r, nil
}

func (r *Reader) readFields(meta *store.MMapInput) error {
	bodyEnd := meta.Len() - codec.FooterLength
	dataEnd := r.data.Len() - codec.FooterLength

	for {
		number, err := meta.ReadVInt()
		if err != nil {
			return &codec.CorruptIndexError{File: meta.String(), Reason: fmt.Sprintf("truncated field directory: %v", err)}
		}
		if number == endOfFields {
			break
		}
		if number < 0 {
			return &codec.CorruptIndexError{File: meta.String(), Reason: fmt.Sprintf("invalid field number %d", number)}
		}
		if _, dup := r.fields[number]; dup {
			return &codec.CorruptIndexError{File: meta.String(), Reason: fmt.Sprintf("duplicate field %d", number)}
		}

		marker, err := meta.ReadByte()
		if err != nil {
			return &codec.CorruptIndexError{File: meta.String(), Reason: fmt.Sprintf("truncated field entry: %v", err)}
		}
		v, err := meta.ReadLong()
		if err != nil {
			return &codec.CorruptIndexError{File: meta.String(), Reason: fmt.Sprintf("truncated field entry: %v", err)}
		}

		switch marker {
		case constantMarker:
			r.fields[number] = &constantValues{value: v, maxDoc: r.maxDoc}
		case 1, 2, 4, 8:
			width := int64(marker)
			length := int64(r.maxDoc) * width
			if v < 0 || v > dataEnd-length {
				return &codec.CorruptIndexError{File: meta.String(),
					Reason: fmt.Sprintf("field %d points past the end of the data file: offset=%d length=%d", number, v, length)}
			}
			ra, err := r.data.Slice(fmt.Sprintf("norms(field=%d)", number), v, length)
			if err != nil {
				return err
			}
			r.slices = append(r.slices, ra)
			r.fields[number] = &packedValues{in: ra, width: int(marker), maxDoc: r.maxDoc}
		default:
			return &codec.CorruptIndexError{File: meta.String(), Reason: fmt.Sprintf("invalid byte width %d for field %d", marker, number)}
		}
	}

	if meta.FilePointer() != bodyEnd {
		return &codec.CorruptIndexError{File: meta.String(),
			Reason: fmt.Sprintf("field directory ended at %d, footer starts at %d", meta.FilePointer(), bodyEnd)}
	}
	return nil
}

// MaxDoc returns the document count of the segment.
func (r *Reader) MaxDoc() int32 {
	return r.maxDoc
}

// Norms returns the norms of field. Fields without norms fail with
// lexgo.ErrIllegalArgument.
func (r *Reader) Norms(field codec.FieldInfo) (search.NumericDocValues, error) {
	v, ok := r.fields[field.Number]
	if !ok {
		return nil, fmt.Errorf("%w: no norms for field %s (number %d)", lexgo.ErrIllegalArgument, field.Name, field.Number)
	}
	return v, nil
}

// Close releases the mapped files. Values returned by Norms must not be used
// afterwards.
func (r *Reader) Close() error {
	var errs []error
	for _, s := range r.slices {
		errs = append(errs, s.Close())
	}
	r.slices = nil
	if r.data != nil {
		errs = append(errs, r.data.Close())
	}
	return errors.Join(errs...)
}

type constantValues struct {
	value  int64
	maxDoc int32
}

func (c *constantValues) Get(doc int32) (int64, error) {
	if doc < 0 || doc >= c.maxDoc {
		return 0, docOutOfRange(doc, c.maxDoc)
	}
	return c.value, nil
}

type packedValues struct {
	in     store.RandomAccessInput
	width  int
	maxDoc int32
}

func (p *packedValues) Get(doc int32) (int64, error) {
	if doc < 0 || doc >= p.maxDoc {
		return 0, docOutOfRange(doc, p.maxDoc)
	}
	pos := int64(doc) * int64(p.width)
	switch p.width {
	case 1:
		b, err := p.in.ReadByteAt(pos)
		return int64(int8(b)), err
	case 2:
		v, err := p.in.ReadShortAt(pos)
		return int64(v), err
	case 4:
		v, err := p.in.ReadIntAt(pos)
		return int64(v), err
	default:
		return p.in.ReadLongAt(pos)
	}
}

func docOutOfRange(doc, maxDoc int32) error {
	return fmt.Errorf("%w: document %d outside [0, %d)", lexgo.ErrIllegalArgument, doc, maxDoc)
}
