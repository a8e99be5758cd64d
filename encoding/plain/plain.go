// Package plain implements the PLAIN parquet encoding: fixed-width
// little-endian primitives, bit-packed booleans, and length-prefixed byte
// arrays.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#plain-plain--0
package plain

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	ByteArrayLengthSize = 4
	MaxByteArrayLength  = math.MaxInt32
)

func AppendBoolean(b []byte, n int, v bool) []byte {
	i := n / 8
	j := n % 8

	if cap(b) > i {
		b = b[:i+1]
	} else {
		tmp := make([]byte, i+1, 2*(i+1))
		copy(tmp, b)
		b = tmp
	}

	k := uint(j)
	x := byte(0)
	if v {
		x = 1
	}
	b[i] = (b[i] &^ (1 << k)) | (x << k)
	return b
}

// DecodeBoolean unpacks count bit-packed LSB-first booleans from src.
func DecodeBoolean(dst []bool, src []byte, count int) ([]bool, error) {
	if (count+7)/8 > len(src) {
		return dst, fmt.Errorf("plain: boolean stream of %d values needs %d bytes, got %d: %w", count, (count+7)/8, len(src), io.ErrUnexpectedEOF)
	}
	for i := 0; i < count; i++ {
		b := src[i/8]
		dst = append(dst, (b>>(uint(i)%8))&1 != 0)
	}
	return dst, nil
}

func AppendInt32(b []byte, v int32) []byte {
	var x [4]byte
	binary.LittleEndian.PutUint32(x[:], uint32(v))
	return append(b, x[:]...)
}

func DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	if len(src)%4 != 0 {
		return dst, errInvalidInputSize("INT32", len(src), 4)
	}
	for i := 0; i+4 <= len(src); i += 4 {
		dst = append(dst, int32(binary.LittleEndian.Uint32(src[i:])))
	}
	return dst, nil
}

func AppendInt64(b []byte, v int64) []byte {
	var x [8]byte
	binary.LittleEndian.PutUint64(x[:], uint64(v))
	return append(b, x[:]...)
}

func DecodeInt64(dst []int64, src []byte) ([]int64, error) {
	if len(src)%8 != 0 {
		return dst, errInvalidInputSize("INT64", len(src), 8)
	}
	for i := 0; i+8 <= len(src); i += 8 {
		dst = append(dst, int64(binary.LittleEndian.Uint64(src[i:])))
	}
	return dst, nil
}

// Int96 is carried as 12 opaque bytes, per spec.md's treatment of the
// legacy type: no temporal interpretation happens in this package.
type Int96 [12]byte

func AppendInt96(b []byte, v Int96) []byte { return append(b, v[:]...) }

func DecodeInt96(dst []Int96, src []byte) ([]Int96, error) {
	if len(src)%12 != 0 {
		return dst, errInvalidInputSize("INT96", len(src), 12)
	}
	for i := 0; i+12 <= len(src); i += 12 {
		var v Int96
		copy(v[:], src[i:i+12])
		dst = append(dst, v)
	}
	return dst, nil
}

func AppendFloat(b []byte, v float32) []byte {
	var x [4]byte
	binary.LittleEndian.PutUint32(x[:], math.Float32bits(v))
	return append(b, x[:]...)
}

func DecodeFloat(dst []float32, src []byte) ([]float32, error) {
	if len(src)%4 != 0 {
		return dst, errInvalidInputSize("FLOAT", len(src), 4)
	}
	for i := 0; i+4 <= len(src); i += 4 {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(src[i:])))
	}
	return dst, nil
}

func AppendDouble(b []byte, v float64) []byte {
	var x [8]byte
	binary.LittleEndian.PutUint64(x[:], math.Float64bits(v))
	return append(b, x[:]...)
}

func DecodeDouble(dst []float64, src []byte) ([]float64, error) {
	if len(src)%8 != 0 {
		return dst, errInvalidInputSize("DOUBLE", len(src), 8)
	}
	for i := 0; i+8 <= len(src); i += 8 {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(src[i:])))
	}
	return dst, nil
}

func AppendByteArray(b, v []byte) []byte {
	var length [ByteArrayLengthSize]byte
	PutByteArrayLength(length[:], len(v))
	b = append(b, length[:]...)
	return append(b, v...)
}

func PutByteArrayLength(b []byte, n int) { binary.LittleEndian.PutUint32(b, uint32(n)) }

func ByteArrayLength(b []byte) int { return int(binary.LittleEndian.Uint32(b)) }

// DecodeByteArray decodes count length-prefixed byte array values from
// src, appending references into src (the caller must not mutate src
// while the returned slices are in use).
func DecodeByteArray(dst [][]byte, src []byte, count int) ([][]byte, error) {
	for i := 0; i < count; i++ {
		v, rest, err := NextByteArray(src)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
		src = rest
	}
	return dst, nil
}

func NextByteArray(b []byte) (v, rest []byte, err error) {
	if len(b) < ByteArrayLengthSize {
		return nil, b, ErrTooShort(len(b))
	}
	n := ByteArrayLength(b)
	if n < 0 || n > (len(b)-ByteArrayLengthSize) {
		return nil, b, ErrTooShort(len(b))
	}
	if n > MaxByteArrayLength {
		return nil, b, ErrTooLarge(n)
	}
	n += ByteArrayLengthSize
	return b[ByteArrayLengthSize:n:n], b[n:len(b):len(b)], nil
}

func ValidateByteArray(b []byte) error {
	for len(b) > 0 {
		_, rest, err := NextByteArray(b)
		if err != nil {
			return err
		}
		b = rest
	}
	return nil
}

// AppendFixedLenByteArray appends a single fixed-length value. The caller
// is responsible for ensuring len(v) == the column's type_length.
func AppendFixedLenByteArray(b []byte, v []byte) []byte { return append(b, v...) }

// DecodeFixedLenByteArray splits src into count consecutive runs of size
// bytes each.
func DecodeFixedLenByteArray(dst [][]byte, src []byte, size, count int) ([][]byte, error) {
	if size <= 0 {
		return dst, fmt.Errorf("plain: invalid fixed_len_byte_array size %d", size)
	}
	need := size * count
	if len(src) < need {
		return dst, fmt.Errorf("plain: fixed_len_byte_array stream of %d values needs %d bytes, got %d: %w", count, need, len(src), io.ErrUnexpectedEOF)
	}
	for i := 0; i < count; i++ {
		dst = append(dst, src[i*size:(i+1)*size:(i+1)*size])
	}
	return dst, nil
}

func ErrTooShort(length int) error {
	return fmt.Errorf("input of length %d is too short to contain a PLAIN encoded byte array value: %w", length, io.ErrUnexpectedEOF)
}

func ErrTooLarge(length int) error {
	return fmt.Errorf("byte array of length %d is too large to be encoded", length)
}

func errInvalidInputSize(typ string, size, multipleOf int) error {
	return fmt.Errorf("plain: input of size %d is not a multiple of %d decoding %s values", size, multipleOf, typ)
}
