package store

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/lexgo"
)

func decodeShort(b []byte) int16 {
	return int16(binary.BigEndian.Uint16(b))
}

func decodeInt(b []byte) int32 {
	return int32(binary.BigEndian.Uint32(b))
}

// decodeLong assembles the value from two ints, high half first.
func decodeLong(b []byte) int64 {
	hi := int64(decodeInt(b[:4]))
	lo := int64(decodeInt(b[4:8]))
	return hi<<32 | lo&0xffffffff
}

// readVInt decodes 7 bits per byte, least significant group first, with the
// high bit marking continuation. Negative values occupy five bytes.
func readVInt(r io.ByteReader) (int32, error) {
	var v uint32
	for shift := uint(0); shift < 35; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift == 28 && b&0xf0 != 0 {
			return 0, fmt.Errorf("%w: invalid vint (too many bits)", lexgo.ErrDataCorruption)
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return int32(v), nil
		}
	}
	return 0, fmt.Errorf("%w: invalid vint (too many bytes)", lexgo.ErrDataCorruption)
}

func readVLong(r io.ByteReader) (int64, error) {
	var v uint64
	for shift := uint(0); shift < 63; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return int64(v), nil
		}
	}
	return 0, fmt.Errorf("%w: invalid vlong (too many bytes)", lexgo.ErrDataCorruption)
}

// appendVInt encodes v as its unsigned 32-bit pattern.
func appendVInt(dst []byte, v int32) []byte {
	u := uint32(v)
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

func appendVLong(dst []byte, v int64) []byte {
	u := uint64(v)
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}
