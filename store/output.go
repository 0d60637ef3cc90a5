package store

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/hupe1980/lexgo"
	lexhash "github.com/hupe1980/lexgo/internal/hash"
)

// DataOutput is an append-only writer of the primitive encodings read back by
// DataInput.
type DataOutput interface {
	io.Writer
	io.ByteWriter
	WriteShort(v int16) error
	WriteInt(v int32) error
	WriteLong(v int64) error
	WriteVInt(v int32) error
	WriteVLong(v int64) error
	WriteString(s string) error
}

// IndexOutput is a DataOutput backed by a named file. It tracks the write
// offset and a running CRC32C of everything written.
type IndexOutput interface {
	DataOutput
	io.Closer
	Name() string
	FilePointer() int64
	Checksum() uint32
}

const defaultOutputBufferSize = 16 * 1024

// OutputStream implements IndexOutput over any io.WriteCloser.
type OutputStream struct {
	name    string
	w       io.WriteCloser
	bw      *bufio.Writer
	crc     hash.Hash32
	pos     int64
	closed  bool
	scratch [binary.MaxVarintLen64]byte
}

var _ IndexOutput = (*OutputStream)(nil)

// NewOutputStream returns a buffered output named name writing to w.
// Closing the stream flushes the buffer and closes w.
func NewOutputStream(name string, w io.WriteCloser) *OutputStream {
	return &OutputStream{
		name: name,
		w:    w,
		bw:   bufio.NewWriterSize(w, defaultOutputBufferSize),
		crc:  lexhash.NewCRC32C(),
	}
}

// Name returns the file name.
func (o *OutputStream) Name() string {
	return o.name
}

// FilePointer returns the number of bytes written so far.
func (o *OutputStream) FilePointer() int64 {
	return o.pos
}

// Checksum returns the CRC32C of every byte written so far, including bytes
// still buffered.
func (o *OutputStream) Checksum() uint32 {
	return o.crc.Sum32()
}

func (o *OutputStream) Write(p []byte) (int, error) {
	if o.closed {
		return 0, fmt.Errorf("%w: output %q is closed", lexgo.ErrIllegalState, o.name)
	}
	n, err := o.bw.Write(p)
	_, _ = o.crc.Write(p[:n])
	o.pos += int64(n)
	return n, err
}

func (o *OutputStream) writeAll(p []byte) error {
	_, err := o.Write(p)
	return err
}

// WriteByte implements io.ByteWriter.
func (o *OutputStream) WriteByte(c byte) error {
	o.scratch[0] = c
	return o.writeAll(o.scratch[:1])
}

// WriteShort writes v big-endian.
func (o *OutputStream) WriteShort(v int16) error {
	binary.BigEndian.PutUint16(o.scratch[:2], uint16(v))
	return o.writeAll(o.scratch[:2])
}

// WriteInt writes v big-endian.
func (o *OutputStream) WriteInt(v int32) error {
	binary.BigEndian.PutUint32(o.scratch[:4], uint32(v))
	return o.writeAll(o.scratch[:4])
}

// WriteLong writes v big-endian.
func (o *OutputStream) WriteLong(v int64) error {
	binary.BigEndian.PutUint64(o.scratch[:8], uint64(v))
	return o.writeAll(o.scratch[:8])
}

// WriteVInt writes v using 1 to 5 bytes. Negative values take 5 bytes.
func (o *OutputStream) WriteVInt(v int32) error {
	return o.writeAll(appendVInt(o.scratch[:0], v))
}

// WriteVLong writes a non-negative v using 1 to 9 bytes.
func (o *OutputStream) WriteVLong(v int64) error {
	if v < 0 {
		return fmt.Errorf("%w: cannot write negative vlong %d", lexgo.ErrIllegalArgument, v)
	}
	return o.writeAll(appendVLong(o.scratch[:0], v))
}

// WriteString writes the vint byte length of s followed by its bytes.
func (o *OutputStream) WriteString(s string) error {
	if err := o.WriteVInt(int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(o, s)
	return err
}

// Close flushes buffered bytes and closes the underlying writer. It is
// idempotent.
func (o *OutputStream) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return errors.Join(o.bw.Flush(), o.w.Close())
}
