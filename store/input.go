package store

import (
	"fmt"
	"io"

	"github.com/hupe1980/lexgo"
)

// DataInput is a sequential reader of the primitive encodings shared by all
// segment files. Multi-byte values are big-endian.
type DataInput interface {
	io.Reader
	io.ByteReader
	ReadShort() (int16, error)
	ReadInt() (int32, error)
	ReadLong() (int64, error)
	ReadVInt() (int32, error)
	ReadVLong() (int64, error)
	ReadString() (string, error)
}

// RandomAccessInput reads at absolute positions without moving any cursor.
type RandomAccessInput interface {
	Len() int64
	ReadByteAt(pos int64) (byte, error)
	ReadShortAt(pos int64) (int16, error)
	ReadIntAt(pos int64) (int32, error)
	ReadLongAt(pos int64) (int64, error)
}

// MMapInput is a read cursor over a Source. Sequential reads advance the
// cursor's position; the *At methods read at a position relative to the
// start of the input and leave the cursor untouched.
//
// A single MMapInput must not be shared between goroutines; Clone one per
// goroutine instead. Clones share the mapped bytes, not the position.
type MMapInput struct {
	src  *Source
	data []byte
	pos  int
	desc string
}

// OpenMMapInput maps the file at path and returns a cursor positioned at 0.
// Missing or unmappable files return the OS error; an empty file fails with
// lexgo.ErrIllegalState.
func OpenMMapInput(path string) (*MMapInput, error) {
	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	return NewMMapInput(src, path), nil
}

// NewMMapInput returns a cursor over src. The input takes ownership of src
// and closes it on Close.
func NewMMapInput(src *Source, desc string) *MMapInput {
	return &MMapInput{src: src, data: src.Bytes(), desc: desc}
}

// String returns the description given at construction.
func (in *MMapInput) String() string {
	return fmt.Sprintf("MMapInput(%s)", in.desc)
}

// Len returns the number of bytes addressable through this input.
func (in *MMapInput) Len() int64 {
	return int64(in.src.Len())
}

// FilePointer returns the current cursor position.
func (in *MMapInput) FilePointer() int64 {
	return int64(in.pos)
}

// Source returns the view backing this input. It stays owned by the input.
func (in *MMapInput) Source() *Source {
	return in.src
}

// Seek implements io.Seeker. Positions outside [0, Len()] fail with
// lexgo.ErrIllegalArgument and leave the cursor where it was.
func (in *MMapInput) Seek(offset int64, whence int) (int64, error) {
	if err := in.checkOpen(); err != nil {
		return int64(in.pos), err
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(in.pos) + offset
	case io.SeekEnd:
		abs = in.Len() + offset
	default:
		return int64(in.pos), fmt.Errorf("%w: invalid whence %d", lexgo.ErrIllegalArgument, whence)
	}
	if abs < 0 || abs > in.Len() {
		return int64(in.pos), fmt.Errorf("%w: invalid position %d, expecting 0 <= pos <= %d",
			lexgo.ErrIllegalArgument, abs, in.Len())
	}
	in.pos = int(abs)
	return abs, nil
}

// Read copies up to len(p) bytes and advances the cursor. At the end of the
// input it returns 0, io.EOF.
func (in *MMapInput) Read(p []byte) (int, error) {
	if err := in.checkOpen(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if in.pos >= len(in.data) {
		return 0, io.EOF
	}
	n := copy(p, in.data[in.pos:])
	in.pos += n
	return n, nil
}

// next returns the following n bytes and advances the cursor, or
// io.ErrUnexpectedEOF if fewer remain.
func (in *MMapInput) next(n int) ([]byte, error) {
	if err := in.checkOpen(); err != nil {
		return nil, err
	}
	if len(in.data)-in.pos < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := in.data[in.pos : in.pos+n]
	in.pos += n
	return b, nil
}

// ReadByte implements io.ByteReader.
func (in *MMapInput) ReadByte() (byte, error) {
	b, err := in.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadShort reads a big-endian 16-bit value.
func (in *MMapInput) ReadShort() (int16, error) {
	b, err := in.next(2)
	if err != nil {
		return 0, err
	}
	return decodeShort(b), nil
}

// ReadInt reads a big-endian 32-bit value.
func (in *MMapInput) ReadInt() (int32, error) {
	b, err := in.next(4)
	if err != nil {
		return 0, err
	}
	return decodeInt(b), nil
}

// ReadLong reads a big-endian 64-bit value.
func (in *MMapInput) ReadLong() (int64, error) {
	b, err := in.next(8)
	if err != nil {
		return 0, err
	}
	return decodeLong(b), nil
}

// ReadVInt reads a variable-length 32-bit value.
func (in *MMapInput) ReadVInt() (int32, error) {
	return readVInt(in)
}

// ReadVLong reads a variable-length 64-bit value.
func (in *MMapInput) ReadVLong() (int64, error) {
	return readVLong(in)
}

// ReadString reads a vint length followed by that many UTF-8 bytes.
func (in *MMapInput) ReadString() (string, error) {
	n, err := in.ReadVInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative string length %d", lexgo.ErrDataCorruption, n)
	}
	b, err := in.next(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadByteAt reads the byte at pos.
func (in *MMapInput) ReadByteAt(pos int64) (byte, error) {
	b, err := in.at(pos, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadShortAt reads the big-endian 16-bit value at pos.
func (in *MMapInput) ReadShortAt(pos int64) (int16, error) {
	b, err := in.at(pos, 2)
	if err != nil {
		return 0, err
	}
	return decodeShort(b), nil
}

// ReadIntAt reads the big-endian 32-bit value at pos.
func (in *MMapInput) ReadIntAt(pos int64) (int32, error) {
	b, err := in.at(pos, 4)
	if err != nil {
		return 0, err
	}
	return decodeInt(b), nil
}

// ReadLongAt reads the big-endian 64-bit value at pos.
func (in *MMapInput) ReadLongAt(pos int64) (int64, error) {
	b, err := in.at(pos, 8)
	if err != nil {
		return 0, err
	}
	return decodeLong(b), nil
}

func (in *MMapInput) at(pos int64, n int) ([]byte, error) {
	if err := in.checkOpen(); err != nil {
		return nil, err
	}
	if pos < 0 || pos > int64(len(in.data))-int64(n) {
		return nil, fmt.Errorf("%w: invalid position %d, expecting 0 <= pos <= %d",
			lexgo.ErrIllegalArgument, pos, int64(len(in.data))-int64(n))
	}
	return in.data[pos : pos+int64(n)], nil
}

// Slice returns a new input over [offset, offset+length) of this input,
// positioned at 0.
func (in *MMapInput) Slice(desc string, offset, length int64) (*MMapInput, error) {
	if err := in.checkOpen(); err != nil {
		return nil, err
	}
	if offset < 0 || length < 0 || offset > in.Len()-length {
		return nil, fmt.Errorf("%w: illegal slice (%d, %d) of input %q with length %d",
			lexgo.ErrIllegalArgument, offset, length, in.desc, in.Len())
	}
	src, err := in.src.Range(int(offset), int(length))
	if err != nil {
		return nil, err
	}
	return NewMMapInput(src, desc), nil
}

// RandomAccessSlice returns a random access view over [offset, offset+length).
func (in *MMapInput) RandomAccessSlice(offset, length int64) (RandomAccessInput, error) {
	return in.Slice("RandomAccessSlice", offset, length)
}

// Clone returns an independent cursor over the same bytes, starting at the
// current position.
func (in *MMapInput) Clone() (*MMapInput, error) {
	if err := in.checkOpen(); err != nil {
		return nil, err
	}
	src, err := in.src.Clone()
	if err != nil {
		return nil, err
	}
	c := NewMMapInput(src, in.desc)
	c.pos = in.pos
	return c, nil
}

// Close releases the input's reference to the mapping. It is idempotent.
func (in *MMapInput) Close() error {
	in.data = nil
	return in.src.Close()
}

func (in *MMapInput) checkOpen() error {
	if in.data == nil && in.src.closed.Load() {
		return fmt.Errorf("%w: input %q is closed", lexgo.ErrIllegalState, in.desc)
	}
	return nil
}
