// Package leb128 implements LEB128 variable-length integer encoding as used
// throughout the WebAssembly binary format for section sizes, indices, and
// immediates.
package leb128

import (
	"errors"
	"io"
)

const maxVarintLen64 = 10

// EncodeUint32 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint64(v uint64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		out = append(out, b)
		return out
	}
}

// EncodeInt32 encodes v as a signed LEB128 byte sequence.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 encodes v as a signed LEB128 byte sequence.
func EncodeInt64(v int64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

var (
	errTooLong = errors.New("leb128: integer representation too long")
	errTooBig  = errors.New("leb128: integer too large for target width")
)

// byteSource supplies successive encoded bytes.
type byteSource func(i int) (b byte, ok bool, err error)

func decodeUnsigned(bits int, next byteSource) (uint64, uint64, error) {
	maxBytes := (bits + 6) / 7
	var result uint64
	var shift uint
	for i := 0; ; i++ {
		b, ok, err := next(i)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return 0, 0, io.ErrUnexpectedEOF
		}
		if i >= maxBytes {
			return 0, 0, errTooLong
		}
		cont := b&0x80 != 0
		val := uint64(b & 0x7f)
		if !cont {
			if allowed := uint(bits) - shift; allowed < 7 && val>>allowed != 0 {
				return 0, 0, errTooBig
			}
		} else if i == maxBytes-1 {
			return 0, 0, errTooLong
		}
		result |= val << shift
		if !cont {
			return result, uint64(i + 1), nil
		}
		shift += 7
	}
}

func decodeSigned(bits int, next byteSource) (int64, uint64, error) {
	maxBytes := (bits + 6) / 7
	var result int64
	var shift uint
	for i := 0; ; i++ {
		b, ok, err := next(i)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return 0, 0, io.ErrUnexpectedEOF
		}
		if i >= maxBytes {
			return 0, 0, errTooLong
		}
		cont := b&0x80 != 0
		val := int64(b & 0x7f)
		if !cont {
			if allowed := uint(bits) - shift; allowed < 7 {
				signBit := (val >> (allowed - 1)) & 1
				extra := val >> allowed
				want := int64(0)
				if signBit == 1 {
					want = (int64(1) << (7 - allowed)) - 1
				}
				if extra != want {
					return 0, 0, errTooBig
				}
			}
		} else if i == maxBytes-1 {
			return 0, 0, errTooLong
		}
		result |= val << shift
		if !cont {
			if shift+7 < 64 && b&0x40 != 0 {
				result |= -1 << (shift + 7)
			}
			return result, uint64(i + 1), nil
		}
		shift += 7
	}
}

func bufSource(buf []byte) byteSource {
	return func(i int) (byte, bool, error) {
		if i >= len(buf) {
			return 0, false, nil
		}
		return buf[i], true, nil
	}
}

func readerSource(r io.ByteReader) byteSource {
	return func(_ int) (byte, bool, error) {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, false, nil
			}
			return 0, false, err
		}
		return b, true, nil
	}
}

// LoadUint32 decodes an unsigned LEB128 value from buf, returning the
// decoded value, the number of bytes consumed, and any error.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := decodeUnsigned(32, bufSource(buf))
	return uint32(v), n, err
}

// LoadUint64 decodes an unsigned LEB128 value from buf.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return decodeUnsigned(64, bufSource(buf))
}

// LoadInt32 decodes a signed LEB128 value from buf.
func LoadInt32(buf []byte) (int32, uint64, error) {
	v, n, err := decodeSigned(32, bufSource(buf))
	return int32(v), n, err
}

// LoadInt64 decodes a signed LEB128 value from buf.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return decodeSigned(64, bufSource(buf))
}

// DecodeUint32 reads an unsigned LEB128 value from r.
func DecodeUint32(r io.ByteReader) (uint32, uint64, error) {
	v, n, err := decodeUnsigned(32, readerSource(r))
	return uint32(v), n, err
}

// DecodeUint64 reads an unsigned LEB128 value from r.
func DecodeUint64(r io.ByteReader) (uint64, uint64, error) {
	return decodeUnsigned(64, readerSource(r))
}

// DecodeInt32 reads a signed LEB128 value from r.
func DecodeInt32(r io.ByteReader) (int32, uint64, error) {
	v, n, err := decodeSigned(32, readerSource(r))
	return int32(v), n, err
}

// DecodeInt64 reads a signed LEB128 value from r.
func DecodeInt64(r io.ByteReader) (int64, uint64, error) {
	return decodeSigned(64, readerSource(r))
}

// DecodeInt33AsInt64 decodes a signed LEB128 value of at most 33 significant
// bits from r, as used by Wasm block types, sign-extended to int64.
func DecodeInt33AsInt64(r io.ByteReader) (int64, uint64, error) {
	return decodeSigned(33, readerSource(r))
}
