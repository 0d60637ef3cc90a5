package norms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/store"
)

// Writer writes the norms of one segment into a metadata file (.nvm) and a
// data file (.nvd).
//
// Each field is stored either as a constant in the metadata file or as one
// fixed-width value per document in the data file, using the narrowest width
// that covers the field's value range.
//
// Close must be called exactly once the flush is over, successful or not:
// it terminates the field directory and writes both footers. Without it the
// files are truncated and unreadable. Use defer:
//
//	w, err := norms.NewWriter(ctx, state)
//	if err != nil { return err }
//	defer w.Close()
//
// A Writer is not safe for concurrent use.
type Writer struct {
	ctx    context.Context
	data   *store.OutputStream
	meta   *store.OutputStream
	maxDoc int32
	fields int
	opts   Options
	logger *lexgo.Logger

	closed   bool
	failed   error
	once     sync.Once
	closeErr error
}

// NewWriter creates the data and metadata files of state's segment and
// writes their headers.
func NewWriter(ctx context.Context, state codec.SegmentWriteState, optFns ...func(o *Options)) (*Writer, error) {
	opts := newOptions(optFns)
	si := state.SegmentInfo
	if si.MaxDoc < 0 {
		return nil, fmt.Errorf("%w: negative document count %d", lexgo.ErrIllegalArgument, si.MaxDoc)
	}

	dataName := codec.SegmentFileName(si.Name, state.SegmentSuffix, DataExtension)
	metaName := codec.SegmentFileName(si.Name, state.SegmentSuffix, MetaExtension)

	w := &Writer{
		ctx:    ctx,
		maxDoc: si.MaxDoc,
		opts:   opts,
		logger: opts.Logger.WithSegment(si.Name),
	}

	if err := w.open(ctx, state, dataName, metaName); err != nil {
		w.abort(state.Directory, dataName, metaName)
		return nil, err
	}
	return w, nil
}

func (w *Writer) open(ctx context.Context, state codec.SegmentWriteState, dataName, metaName string) error {
	si := state.SegmentInfo

	var err error
	if w.data, err = state.Directory.CreateOutput(ctx, dataName); err != nil {
		return err
	}
	if err = codec.WriteIndexHeader(w.data, DataCodec, VersionCurrent, si.ID, state.SegmentSuffix); err != nil {
		return err
	}

	if w.meta, err = state.Directory.CreateOutput(ctx, metaName); err != nil {
		return err
	}
	return codec.WriteIndexHeader(w.meta, MetaCodec, VersionCurrent, si.ID, state.SegmentSuffix)
}

// abort closes whatever open created and removes the partial files.
func (w *Writer) abort(dir store.Directory, names ...string) {
	w.closed = true
	for i, out := range []*store.OutputStream{w.data, w.meta} {
		if out == nil {
			continue
		}
		_ = out.Close()
		_ = dir.Delete(context.WithoutCancel(w.ctx), names[i])
	}
}

// AddField writes the norms of field. values must yield exactly one value
// per document of the segment, in document order, and is consumed twice.
// If values fail or disagree between the two passes, nothing is recorded for
// the field and the error is returned; fields added earlier are unaffected.
// A count mismatch is reported as a *CountMismatchError. An I/O error leaves
// the files in an unknown state: later calls fail with lexgo.ErrIllegalState,
// but Close must still be called.
func (w *Writer) AddField(field codec.FieldInfo, values codec.ReusableIterator) error {
	if w.closed {
		return fmt.Errorf("%w: norms writer is closed", lexgo.ErrIllegalState)
	}
	if w.failed != nil {
		return fmt.Errorf("%w: norms writer failed: %v", lexgo.ErrIllegalState, w.failed)
	}

	start := time.Now()
	width, err := w.addField(field, values)
	if err == nil {
		w.fields++
	}

	w.opts.Metrics.RecordNormsField(width, time.Since(start), err)
	w.logger.LogNormsField(w.ctx, field.Name, width, err)
	return err
}

func (w *Writer) addField(field codec.FieldInfo, values codec.ReusableIterator) (int, error) {
	var (
		count    int64
		minValue int64 = math.MaxInt64
		maxValue int64 = math.MinInt64
	)
	for values.Next() {
		v := values.Value()
		minValue = min(minValue, v)
		maxValue = max(maxValue, v)
		count++
	}
	if err := values.Err(); err != nil {
		return 0, err
	}
	values.Reset()

	if count != int64(w.maxDoc) {
		return 0, &CountMismatchError{Field: field.Name, Expected: w.maxDoc, Actual: count}
	}

	if count == 0 || minValue == maxValue {
		if count == 0 {
			minValue = 0
		}
		return 0, w.writeEntry(field.Number, constantMarker, minValue)
	}

	width := byteWidth(minValue, maxValue)
	offset := w.data.FilePointer()
	if err := w.addValues(field, width, count, minValue, maxValue, values); err != nil {
		return width, err
	}
	return width, w.writeEntry(field.Number, byte(width), offset)
}

// writeEntry appends the field's directory entry to the metadata file. It
// runs only after the field's data is complete, so a failed field leaves no
// entry behind.
func (w *Writer) writeEntry(number int32, marker byte, v int64) error {
	err := w.meta.WriteVInt(number)
	if err == nil {
		err = w.meta.WriteByte(marker)
	}
	if err == nil {
		err = w.meta.WriteLong(v)
	}
	if err != nil {
		w.failed = err
	}
	return err
}

// addValues writes one value per document to the data file. Bytes of a
// field that fails midway stay in the data file unreferenced.
func (w *Writer) addValues(field codec.FieldInfo, width int, count, minValue, maxValue int64, values codec.ReusableIterator) error {
	var written int64
	for values.Next() {
		v := values.Value()
		if v < minValue || v > maxValue || written == count {
			return fmt.Errorf("%w: values of field %s changed between passes", lexgo.ErrDataCorruption, field.Name)
		}
		if err := w.writeValue(width, v); err != nil {
			w.failed = err
			return err
		}
		written++
	}
	if err := values.Err(); err != nil {
		return err
	}
	values.Reset()

	if written != count {
		return fmt.Errorf("%w: second pass over field %s yielded %d values, expected %d",
			lexgo.ErrDataCorruption, field.Name, written, count)
	}
	return nil
}

func (w *Writer) writeValue(width int, v int64) error {
	switch width {
	case 1:
		return w.data.WriteByte(byte(int8(v)))
	case 2:
		return w.data.WriteShort(int16(v))
	case 4:
		return w.data.WriteInt(int32(v))
	default:
		return w.data.WriteLong(v)
	}
}

// Close terminates the field directory, writes both footers and closes the
// files. It runs once; later calls return the first result. Failures mean
// truncated output: they are logged at error level and reported to the
// metrics collector in addition to being returned.
func (w *Writer) Close() error {
	w.once.Do(func() {
		w.closed = true
		err := errors.Join(
			w.meta.WriteVInt(endOfFields),
			codec.WriteFooter(w.meta),
			codec.WriteFooter(w.data),
			w.meta.Close(),
			w.data.Close(),
		)
		w.closeErr = err
		w.opts.Metrics.RecordNormsFinish(err)
		w.logger.LogNormsFinish(w.ctx, w.fields, err)
	})
	return w.closeErr
}
