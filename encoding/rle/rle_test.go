package rle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet/encoding/rle"
)

func TestLevelsRoundTrip(t *testing.T) {
	tests := [...]struct {
		scenario string
		values   []uint32
		bitWidth int
	}{
		{scenario: "empty", values: nil, bitWidth: 3},
		{scenario: "all zero, bitWidth zero", values: []uint32{0, 0, 0, 0, 0}, bitWidth: 0},
		{scenario: "single run longer than 8", values: repeat(1, 20), bitWidth: 1},
		{scenario: "bit-packed group shorter than 8", values: []uint32{0, 1, 2, 1, 0}, bitWidth: 2},
		{scenario: "mixed runs and groups", values: append(append(repeat(3, 10), 0, 1, 2, 0, 1), repeat(3, 9)...), bitWidth: 2},
		{scenario: "max level needing full byte", values: []uint32{255, 0, 255, 128, 64}, bitWidth: 8},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			encoded, err := rle.EncodeLevels(nil, test.values, test.bitWidth)
			require.NoError(t, err)

			decoded, n, err := rle.DecodeLevels(nil, encoded, test.bitWidth, len(test.values))
			require.NoError(t, err)
			require.Equal(t, len(encoded), n)
			require.Equal(t, test.values, decoded)
		})
	}
}

func TestDictionaryIndicesRoundTrip(t *testing.T) {
	tests := [...]struct {
		scenario string
		values   []uint32
		bitWidth int
	}{
		{scenario: "empty dictionary", values: nil, bitWidth: 0},
		{scenario: "single value repeated", values: repeat(0, 16), bitWidth: 1},
		{scenario: "spread across a wide dictionary", values: []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, bitWidth: 4},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			encoded, err := rle.EncodeDictionaryIndices(nil, test.values, test.bitWidth)
			require.NoError(t, err)

			decoded, err := rle.DecodeDictionaryIndices(nil, encoded, len(test.values))
			require.NoError(t, err)
			require.Equal(t, test.values, decoded)
		})
	}
}

func TestBitWidthForMaxLevel(t *testing.T) {
	require.Equal(t, 0, rle.BitWidthForMaxLevel(0))
	require.Equal(t, 1, rle.BitWidthForMaxLevel(1))
	require.Equal(t, 2, rle.BitWidthForMaxLevel(3))
	require.Equal(t, 3, rle.BitWidthForMaxLevel(4))
}

func TestBitWidthForDictionarySize(t *testing.T) {
	require.Equal(t, 0, rle.BitWidthForDictionarySize(0))
	require.Equal(t, 0, rle.BitWidthForDictionarySize(1))
	require.Equal(t, 1, rle.BitWidthForDictionarySize(2))
	require.Equal(t, 4, rle.BitWidthForDictionarySize(16))
}

func repeat(v uint32, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = v
	}
	return out
}
