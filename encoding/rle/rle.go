// Package rle implements the hybrid run-length/bit-packing encoding used
// for definition levels, repetition levels, and dictionary-index streams
// in the Parquet format.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#run-length-encoding--bit-packing-hybrid-rle--3
//
// Unlike the SIMD/unsafe-pointer encoder this package is modeled on, this
// implementation works a byte and a group-of-8 at a time; it favors being
// obviously correct over being fast.
package rle

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const maxBitWidth = 32

// byteWidth returns ceil(bitWidth/8), the width of a single RLE-run value.
func byteWidth(bitWidth int) int { return (bitWidth + 7) / 8 }

// EncodeLevels encodes values (each < 1<<bitWidth) using level-stream
// framing: a 4-byte little-endian length prefix followed by the run
// sequence. It is used for repetition and definition level streams within
// a data page.
func EncodeLevels(dst []byte, values []uint32, bitWidth int) ([]byte, error) {
	start := len(dst)
	dst = append(dst, 0, 0, 0, 0)
	dst, err := encodeRuns(dst, values, bitWidth)
	if err != nil {
		return dst, err
	}
	binary.LittleEndian.PutUint32(dst[start:], uint32(len(dst)-start-4))
	return dst, nil
}

// DecodeLevels decodes exactly numValues values framed as level-stream RLE
// from the front of src, returning the decoded values and the number of
// bytes consumed (4 + the declared payload length). It is an error if the
// payload does not decode to exactly numValues values or leaves declared
// bytes unconsumed.
func DecodeLevels(dst []uint32, src []byte, bitWidth int, numValues int) ([]uint32, int, error) {
	if len(src) < 4 {
		return dst, 0, fmt.Errorf("rle: level stream shorter than length prefix: %w", io.ErrUnexpectedEOF)
	}
	n := binary.LittleEndian.Uint32(src)
	src = src[4:]
	if uint64(n) > uint64(len(src)) {
		return dst, 0, fmt.Errorf("rle: level stream declares %d bytes but only %d remain: %w", n, len(src), io.ErrUnexpectedEOF)
	}
	payload := src[:n]
	dst, consumed, err := decodeRuns(dst, payload, bitWidth, numValues)
	if err != nil {
		return dst, 0, err
	}
	if consumed != len(payload) {
		return dst, 0, fmt.Errorf("rle: level stream declared %d bytes but consumed %d", len(payload), consumed)
	}
	return dst, 4 + int(n), nil
}

// EncodeDictionaryIndices encodes values using dictionary-index framing: a
// leading bit-width byte followed by the run sequence with no length
// prefix (it runs to the end of whatever buffer the caller writes, by
// convention a whole data page payload).
func EncodeDictionaryIndices(dst []byte, values []uint32, bitWidth int) ([]byte, error) {
	if bitWidth < 0 || bitWidth > maxBitWidth {
		return dst, fmt.Errorf("rle: invalid dictionary index bit-width %d", bitWidth)
	}
	dst = append(dst, byte(bitWidth))
	return encodeRuns(dst, values, bitWidth)
}

// DecodeDictionaryIndices decodes numValues dictionary indices from src,
// which must start with the bit-width byte and run to the end of the
// buffer.
func DecodeDictionaryIndices(dst []uint32, src []byte, numValues int) ([]uint32, error) {
	if len(src) < 1 {
		return dst, fmt.Errorf("rle: dictionary index stream missing bit-width byte: %w", io.ErrUnexpectedEOF)
	}
	bitWidth := int(src[0])
	if bitWidth > maxBitWidth {
		return dst, fmt.Errorf("rle: dictionary index bit-width %d exceeds 32", bitWidth)
	}
	dst, _, err := decodeRuns(dst, src[1:], bitWidth, numValues)
	return dst, err
}

// encodeRuns appends the RLE/bit-packed run sequence for values to dst,
// greedily emitting an RLE run whenever the next 8+ values are identical
// and otherwise accumulating bit-packed groups of 8.
func encodeRuns(dst []byte, values []uint32, bitWidth int) ([]byte, error) {
	if bitWidth < 0 || bitWidth > maxBitWidth {
		return dst, fmt.Errorf("rle: invalid bit-width %d", bitWidth)
	}
	if bitWidth == 0 {
		for _, v := range values {
			if v != 0 {
				return dst, fmt.Errorf("rle: value %d does not fit in bit-width 0", v)
			}
		}
		if len(values) == 0 {
			return dst, nil
		}
		return appendUvarint(dst, uint64(len(values))<<1), nil
	}

	bw := byteWidth(bitWidth)
	i := 0
	for i < len(values) {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		if j-i >= 8 {
			dst = appendUvarint(dst, uint64(j-i)<<1)
			dst = appendLE(dst, values[i], bw)
			i = j
			continue
		}

		// Accumulate values into groups of 8 until a run of >=8 identical
		// values begins or the input ends.
		groupStart := i
		for i < len(values) {
			k := i + 1
			for k < len(values) && values[k] == values[i] {
				k++
			}
			if k-i >= 8 {
				break
			}
			i = k
		}
		groupValues := values[groupStart:i]
		numGroups := (len(groupValues) + 7) / 8
		if numGroups > math.MaxInt32/max1(bitWidth) {
			return dst, fmt.Errorf("rle: bit-packed group count %d overflows", numGroups)
		}
		dst = appendUvarint(dst, uint64(numGroups)<<1|1)
		for g := 0; g < numGroups; g++ {
			var group [8]uint32
			copy(group[:], groupValues[g*8:])
			dst = appendBitPackedGroup(dst, group, bitWidth)
		}
	}
	return dst, nil
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// decodeRuns decodes up to numValues values from src, stopping as soon as
// numValues have been produced (discarding padding in the final
// run/group), and returns the number of bytes consumed.
func decodeRuns(dst []uint32, src []byte, bitWidth int, numValues int) ([]uint32, int, error) {
	if bitWidth < 0 || bitWidth > maxBitWidth {
		return dst, 0, fmt.Errorf("rle: invalid bit-width %d", bitWidth)
	}
	if numValues == 0 {
		return dst, 0, nil
	}
	bw := byteWidth(bitWidth)
	var bitMask uint64
	if bitWidth < 64 {
		bitMask = uint64(1)<<uint(bitWidth) - 1
	} else {
		bitMask = math.MaxUint64
	}

	pos := 0
	produced := 0
	for produced < numValues {
		if pos >= len(src) {
			return dst, pos, fmt.Errorf("rle: ran out of input after producing %d/%d values: %w", produced, numValues, io.ErrUnexpectedEOF)
		}
		u, n := binary.Uvarint(src[pos:])
		if n <= 0 {
			return dst, pos, fmt.Errorf("rle: invalid run header varint")
		}
		pos += n
		count, bitpacked := u>>1, u&1 != 0

		if !bitpacked {
			var word uint64
			if bitWidth != 0 {
				if pos+bw > len(src) {
					return dst, pos, fmt.Errorf("rle: run-length block of %d values: %w", count, io.ErrUnexpectedEOF)
				}
				word = readLE(src[pos:pos+bw], bw)
				pos += bw
			}
			take := count
			remaining := uint64(numValues - produced)
			if take > remaining {
				take = remaining
			}
			for k := uint64(0); k < take; k++ {
				dst = append(dst, uint32(word))
			}
			produced += int(take)
		} else {
			if bitWidth == 0 {
				take := count * 8
				remaining := uint64(numValues - produced)
				if take > remaining {
					take = remaining
				}
				for k := uint64(0); k < take; k++ {
					dst = append(dst, 0)
				}
				produced += int(take)
				continue
			}
			if count > uint64(math.MaxInt32)/uint64(bitWidth) {
				return dst, pos, fmt.Errorf("rle: bit-packed group count %d overflows", count)
			}
			groupBytes := bitWidth // bytes per group of 8 values = bitWidth
			for g := uint64(0); g < count; g++ {
				if pos+groupBytes > len(src) {
					return dst, pos, fmt.Errorf("rle: bit-packed block of %d values: %w", 8*count, io.ErrUnexpectedEOF)
				}
				values := unpackGroup(src[pos:pos+groupBytes], bitWidth, bitMask)
				pos += groupBytes
				for _, v := range values {
					if produced >= numValues {
						break // trailing padding in the final group, discarded
					}
					dst = append(dst, v)
					produced++
				}
			}
		}
	}
	return dst, pos, nil
}

// unpackGroup unpacks 8 LSB-first-packed values of bitWidth bits each from
// exactly bitWidth bytes.
func unpackGroup(b []byte, bitWidth int, bitMask uint64) [8]uint32 {
	var out [8]uint32
	var word uint64
	var bitOffset uint
	next := 0
	for _, by := range b {
		word |= uint64(by) << bitOffset
		bitOffset += 8
		for bitOffset >= uint(bitWidth) && next < 8 {
			out[next] = uint32(word & bitMask)
			next++
			word >>= uint(bitWidth)
			bitOffset -= uint(bitWidth)
		}
	}
	return out
}

// appendBitPackedGroup packs 8 values (zero-padded if fewer were supplied)
// LSB-first into exactly bitWidth bytes and appends them to dst.
func appendBitPackedGroup(dst []byte, group [8]uint32, bitWidth int) []byte {
	var word uint64
	var bitOffset uint
	for _, v := range group {
		word |= uint64(v) << bitOffset
		bitOffset += uint(bitWidth)
		for bitOffset >= 8 {
			dst = append(dst, byte(word))
			word >>= 8
			bitOffset -= 8
		}
	}
	if bitOffset > 0 {
		dst = append(dst, byte(word))
	}
	return dst
}

func appendUvarint(dst []byte, u uint64) []byte {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], u)
	return append(dst, b[:n]...)
}

func appendLE(dst []byte, v uint32, byteCount int) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:byteCount]...)
}

func readLE(b []byte, byteCount int) uint64 {
	var full [4]byte
	copy(full[:], b[:byteCount])
	return uint64(binary.LittleEndian.Uint32(full[:]))
}

// BitWidthForMaxLevel returns ceil(log2(maxLevel+1)), the implicit bit
// width used for level-stream framing (0 when maxLevel == 0).
func BitWidthForMaxLevel(maxLevel int) int {
	if maxLevel <= 0 {
		return 0
	}
	w := 0
	for (1 << w) <= maxLevel {
		w++
	}
	return w
}

// BitWidthForDictionarySize returns ceil(log2(max(1, size))), the bit
// width used to pack dictionary indices for a dictionary of the given
// size.
func BitWidthForDictionarySize(size int) int {
	if size <= 1 {
		return 0
	}
	w := 0
	for (1 << w) < size {
		w++
	}
	return w
}
