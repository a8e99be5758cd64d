package plain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet/encoding/plain"
)

func TestBooleanRoundTrip(t *testing.T) {
	values := []bool{true, false, false, true, true, true, false, false, true}

	var buf []byte
	for i, v := range values {
		buf = plain.AppendBoolean(buf, i, v)
	}

	decoded, err := plain.DecodeBoolean(nil, buf, len(values))
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestInt32RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 2147483647, -2147483648}

	var buf []byte
	for _, v := range values {
		buf = plain.AppendInt32(buf, v)
	}

	decoded, err := plain.DecodeInt32(nil, buf)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 9223372036854775807, -9223372036854775808}

	var buf []byte
	for _, v := range values {
		buf = plain.AppendInt64(buf, v)
	}

	decoded, err := plain.DecodeInt64(nil, buf)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestInt96RoundTrip(t *testing.T) {
	values := []plain.Int96{
		{},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
	}

	var buf []byte
	for _, v := range values {
		buf = plain.AppendInt96(buf, v)
	}

	decoded, err := plain.DecodeInt96(nil, buf)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestFloatRoundTrip(t *testing.T) {
	values := []float32{0, 1.5, -1.5, 3.14159}

	var buf []byte
	for _, v := range values {
		buf = plain.AppendFloat(buf, v)
	}

	decoded, err := plain.DecodeFloat(nil, buf)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestDoubleRoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -1.5, 2.718281828459045}

	var buf []byte
	for _, v := range values {
		buf = plain.AppendDouble(buf, v)
	}

	decoded, err := plain.DecodeDouble(nil, buf)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("hello, world"),
		[]byte{0, 1, 2, 3},
	}

	var buf []byte
	for _, v := range values {
		buf = plain.AppendByteArray(buf, v)
	}

	decoded, err := plain.DecodeByteArray(nil, buf, len(values))
	require.NoError(t, err)
	require.Len(t, decoded, len(values))
	for i, v := range values {
		require.Equal(t, v, decoded[i])
	}
}

func TestNextByteArrayTooShort(t *testing.T) {
	_, _, err := plain.NextByteArray([]byte{1, 2})
	require.Error(t, err)
}

func TestFixedLenByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
	}

	var buf []byte
	for _, v := range values {
		buf = plain.AppendFixedLenByteArray(buf, v)
	}

	decoded, err := plain.DecodeFixedLenByteArray(nil, buf, 4, len(values))
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestDecodeInt32InvalidSize(t *testing.T) {
	_, err := plain.DecodeInt32(nil, []byte{1, 2, 3})
	require.Error(t, err)
}
