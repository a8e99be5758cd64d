package parquet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet"
	"github.com/cobaltwing/parquet/format"
)

func TestDictionaryInsertDedupes(t *testing.T) {
	d := parquet.NewDictionary(format.ByteArray, 0)
	i0 := d.Insert(parquet.StringValue("a"))
	i1 := d.Insert(parquet.StringValue("b"))
	i2 := d.Insert(parquet.StringValue("a"))
	require.Equal(t, i0, i2)
	require.NotEqual(t, i0, i1)
	require.Equal(t, 2, d.Len())
}

func TestDictionaryEncodeDecodeRoundTrip(t *testing.T) {
	d := parquet.NewDictionary(format.Int32, 0)
	for _, v := range []int32{5, 10, 15, 5, 10} {
		d.Insert(parquet.Int32Value(v))
	}
	require.Equal(t, 3, d.Len())

	payload, err := d.Encode(nil)
	require.NoError(t, err)

	d2 := parquet.NewDictionary(format.Int32, 0)
	require.NoError(t, d2.Decode(payload, d.Len()))
	require.Equal(t, d.Len(), d2.Len())
	for i := 0; i < d.Len(); i++ {
		require.Equal(t, d.Index(i).Int32(), d2.Index(i).Int32())
	}
}

func TestDictionaryBounds(t *testing.T) {
	d := parquet.NewDictionary(format.Int32, 0)
	d.Insert(parquet.Int32Value(5))
	d.Insert(parquet.Int32Value(1))
	d.Insert(parquet.Int32Value(9))

	min, max := d.Bounds([]int32{0, 1, 2})
	require.Equal(t, int32(1), min.Int32())
	require.Equal(t, int32(9), max.Int32())
}

func TestDictionaryPowerOfTwoSizes(t *testing.T) {
	for _, k := range []int{1, 5, 13} {
		n := 1 << k
		d := parquet.NewDictionary(format.Int32, 0)
		for i := 0; i < n; i++ {
			d.Insert(parquet.Int32Value(int32(i)))
		}
		require.Equal(t, n, d.Len())
	}
}

func TestDictionaryLookupIndexes(t *testing.T) {
	d := parquet.NewDictionary(format.ByteArray, 0)
	d.Insert(parquet.StringValue("x"))
	d.Insert(parquet.StringValue("y"))
	dst := make([]parquet.Value, 3)
	d.Lookup([]int32{1, 0, 1}, dst)
	require.Equal(t, "y", dst[0].String())
	require.Equal(t, "x", dst[1].String())
	require.Equal(t, "y", dst[2].String())
}
