package parquet_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet"
)

// TestOpenFileRejectsUndersizedFiles is spec.md §8: files of 0..11 bytes
// are always invalid, regardless of content.
func TestOpenFileRejectsUndersizedFiles(t *testing.T) {
	for n := 0; n < 12; n++ {
		b := make([]byte, n)
		_, err := parquet.OpenFile(bytes.NewReader(b), int64(n))
		require.Error(t, err)
		require.True(t, parquet.IsKind(err, parquet.InvalidMagic), "size %d", n)
	}
}

// TestOpenFileRejectsBadHeaderMagic is spec.md §8 scenario 6.
func TestOpenFileRejectsBadHeaderMagic(t *testing.T) {
	b := make([]byte, 12)
	copy(b[len(b)-4:], "PAR1")
	_, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.Error(t, err)
	require.True(t, parquet.IsKind(err, parquet.InvalidMagic))
}

// TestOpenFileRejectsBadTrailerMagic is spec.md §8 scenario 6.
func TestOpenFileRejectsBadTrailerMagic(t *testing.T) {
	b := make([]byte, 12)
	copy(b[:4], "PAR1")
	_, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.Error(t, err)
	require.True(t, parquet.IsKind(err, parquet.InvalidMagic))
}

// TestOpenFileRejectsImpossibleFooterLength is spec.md §8 scenario 6: a
// footer length claiming a size >= file_size-8 cannot leave room for the
// two magics and the length field.
func TestOpenFileRejectsImpossibleFooterLength(t *testing.T) {
	b := make([]byte, 16)
	copy(b[:4], "PAR1")
	binary.LittleEndian.PutUint32(b[len(b)-8:len(b)-4], uint32(len(b)))
	copy(b[len(b)-4:], "PAR1")
	_, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.Error(t, err)
	require.True(t, parquet.IsKind(err, parquet.InvalidMetadata))
}

// TestOpenFileRejectsZeroFooterLengthWithEmptySchema exercises footer_len
// == 0: the Thrift decode of zero bytes ends before the FileMetaData stop
// field, so it fails on truncated input.
func TestOpenFileRejectsZeroFooterLengthWithEmptySchema(t *testing.T) {
	b := make([]byte, 12)
	copy(b[:4], "PAR1")
	binary.LittleEndian.PutUint32(b[4:8], 0)
	copy(b[8:], "PAR1")
	_, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.Error(t, err)
}
