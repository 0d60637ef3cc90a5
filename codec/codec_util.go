package codec

import (
	"fmt"
	"io"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/internal/hash"
	"github.com/hupe1980/lexgo/store"
)

const (
	// CodecMagic starts every index header.
	CodecMagic int32 = 0x3fd76c17

	// FooterMagic starts every footer.
	FooterMagic = ^CodecMagic

	// FooterLength is the size of a footer: magic, algorithm id, checksum.
	FooterLength = 16

	// IDLength is the size of a segment id.
	IDLength = 16

	checksumAlgorithm int32 = 0
)

// CorruptIndexError reports a file whose contents do not match what its
// writer must have produced.
type CorruptIndexError struct {
	File   string
	Reason string
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("corrupt index file %q: %s", e.File, e.Reason)
}

// Unwrap returns lexgo.ErrDataCorruption.
func (e *CorruptIndexError) Unwrap() error {
	return lexgo.ErrDataCorruption
}

func corrupt(file, format string, args ...any) error {
	return &CorruptIndexError{File: file, Reason: fmt.Sprintf(format, args...)}
}

// WriteIndexHeader writes magic, codec name, version, segment id and suffix.
func WriteIndexHeader(out store.DataOutput, codec string, version int32, id [IDLength]byte, suffix string) error {
	if len(suffix) > 255 {
		return fmt.Errorf("%w: segment suffix longer than 255 bytes: %q", lexgo.ErrIllegalArgument, suffix)
	}
	if err := out.WriteInt(CodecMagic); err != nil {
		return err
	}
	if err := out.WriteString(codec); err != nil {
		return err
	}
	if err := out.WriteInt(version); err != nil {
		return err
	}
	if _, err := out.Write(id[:]); err != nil {
		return err
	}
	if err := out.WriteByte(byte(len(suffix))); err != nil {
		return err
	}
	_, err := out.Write([]byte(suffix))
	return err
}

// IndexHeaderLength returns the encoded size of an index header. Codec names
// are expected to be shorter than 128 bytes.
func IndexHeaderLength(codec, suffix string) int {
	return 4 + 1 + len(codec) + 4 + IDLength + 1 + len(suffix)
}

// CheckIndexHeader reads an index header from the cursor and validates every
// field. It returns the file's format version.
func CheckIndexHeader(in *store.MMapInput, codec string, minVersion, maxVersion int32, id [IDLength]byte, suffix string) (int32, error) {
	name := in.String()

	magic, err := in.ReadInt()
	if err != nil {
		return 0, corrupt(name, "truncated header: %v", err)
	}
	if magic != CodecMagic {
		return 0, corrupt(name, "codec header mismatch: actual header=%#x vs expected header=%#x", magic, CodecMagic)
	}

	actualCodec, err := in.ReadString()
	if err != nil {
		return 0, corrupt(name, "truncated header: %v", err)
	}
	if actualCodec != codec {
		return 0, corrupt(name, "codec mismatch: actual codec=%q vs expected codec=%q", actualCodec, codec)
	}

	version, err := in.ReadInt()
	if err != nil {
		return 0, corrupt(name, "truncated header: %v", err)
	}
	if version < minVersion || version > maxVersion {
		return 0, corrupt(name, "format version %d not in supported range [%d, %d]", version, minVersion, maxVersion)
	}

	var actualID [IDLength]byte
	if _, err := io.ReadFull(in, actualID[:]); err != nil {
		return 0, corrupt(name, "truncated header: %v", err)
	}
	if actualID != id {
		return 0, corrupt(name, "file mismatch: expected id=%x, got=%x", id, actualID)
	}

	n, err := in.ReadByte()
	if err != nil {
		return 0, corrupt(name, "truncated header: %v", err)
	}
	actualSuffix := make([]byte, n)
	if _, err := io.ReadFull(in, actualSuffix); err != nil {
		return 0, corrupt(name, "truncated header: %v", err)
	}
	if string(actualSuffix) != suffix {
		return 0, corrupt(name, "file mismatch: expected suffix=%q, got=%q", suffix, actualSuffix)
	}

	return version, nil
}

// WriteFooter writes the footer magic, algorithm id and the CRC32C of every
// byte written before the checksum field.
func WriteFooter(out store.IndexOutput) error {
	if err := out.WriteInt(FooterMagic); err != nil {
		return err
	}
	if err := out.WriteInt(checksumAlgorithm); err != nil {
		return err
	}
	return out.WriteLong(hash.Footer(out.Checksum()))
}

// CheckFooter validates the footer of the whole input and recomputes the
// checksum over its bytes. The cursor is not moved.
func CheckFooter(in *store.MMapInput) (int64, error) {
	name := in.String()
	n := in.Len()
	if n < FooterLength {
		return 0, corrupt(name, "file too short (%d bytes) to contain a footer", n)
	}

	magic, err := in.ReadIntAt(n - FooterLength)
	if err != nil {
		return 0, err
	}
	if magic != FooterMagic {
		return 0, corrupt(name, "codec footer mismatch: actual footer=%#x vs expected footer=%#x", magic, FooterMagic)
	}

	algorithm, err := in.ReadIntAt(n - FooterLength + 4)
	if err != nil {
		return 0, err
	}
	if algorithm != checksumAlgorithm {
		return 0, corrupt(name, "unknown checksum algorithm %d", algorithm)
	}

	stored, err := in.ReadLongAt(n - 8)
	if err != nil {
		return 0, err
	}
	if !hash.ValidFooter(stored) {
		return 0, corrupt(name, "illegal checksum value %#x", stored)
	}

	data := in.Source().Bytes()
	actual := hash.Footer(hash.CRC32C(data[:n-8]))
	if actual != stored {
		return 0, corrupt(name, "checksum failed: expected=%#x actual=%#x", stored, actual)
	}
	return stored, nil
}
