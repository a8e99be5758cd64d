package parquet_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet"
	"github.com/cobaltwing/parquet/format"
)

func TestValueAccessors(t *testing.T) {
	require.Equal(t, int32(7), parquet.Int32Value(7).Int32())
	require.Equal(t, int64(7), parquet.Int64Value(7).Int64())
	require.Equal(t, float32(1.5), parquet.FloatValue(1.5).Float())
	require.Equal(t, 1.5, parquet.DoubleValue(1.5).Double())
	require.True(t, parquet.BooleanValue(true).Boolean())
	require.Equal(t, "hi", parquet.StringValue("hi").String())
}

func TestValueNull(t *testing.T) {
	v := parquet.NullValue(format.Int32)
	require.True(t, v.IsNull())
	require.Equal(t, format.Int32, v.Kind())
}

func TestValueLevels(t *testing.T) {
	v := parquet.Int32Value(1).Level(3, 2)
	require.Equal(t, int32(3), v.DefinitionLevel())
	require.Equal(t, int32(2), v.RepetitionLevel())
}

func TestValueUUID(t *testing.T) {
	id := uuid.New()
	v := parquet.UUIDValue(id)
	got, err := v.UUID()
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestValueUUIDRejectsWrongLength(t *testing.T) {
	v := parquet.FixedLenByteArrayValue([]byte("short"))
	_, err := v.UUID()
	require.Error(t, err)
}
