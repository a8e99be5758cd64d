package compact_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet/format/compact"
)

func TestScalarFieldsRoundTrip(t *testing.T) {
	w := compact.NewWriter()
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(42)
	w.WriteBoolField(2, true)
	w.WriteFieldHeader(compact.TypeI64, 3)
	w.WriteI64(-9000000000)
	w.WriteFieldHeader(compact.TypeBinary, 4)
	w.WriteString("hello")
	w.WriteFieldHeader(compact.TypeDouble, 5)
	w.WriteDouble(3.25)
	w.WriteStructEnd()

	r := compact.NewReader(w.Bytes())
	r.ReadStructBegin()

	h, err := r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(1), h.ID)
	v1, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(42), v1)

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(2), h.ID)
	v2, err := compact.ReadBoolField(h)
	require.NoError(t, err)
	require.True(t, v2)

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(3), h.ID)
	v3, err := r.ReadI64()
	require.NoError(t, err)
	require.Equal(t, int64(-9000000000), v3)

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(4), h.ID)
	v4, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hello", v4)

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(5), h.ID)
	v5, err := r.ReadDouble()
	require.NoError(t, err)
	require.Equal(t, 3.25, v5)

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, byte(compact.TypeStop), h.Type)
	r.ReadStructEnd()
}

func TestListRoundTrip(t *testing.T) {
	w := compact.NewWriter()
	w.WriteListHeader(compact.TypeI32, 3)
	w.WriteI32(1)
	w.WriteI32(2)
	w.WriteI32(3)

	r := compact.NewReader(w.Bytes())
	h, err := r.ReadListHeader()
	require.NoError(t, err)
	require.Equal(t, 3, h.Size)
	require.Equal(t, byte(compact.TypeI32), h.ElemType)

	for i := int32(1); i <= 3; i++ {
		v, err := r.ReadI32()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
}

func TestLargeListHeaderRoundTrip(t *testing.T) {
	w := compact.NewWriter()
	w.WriteListHeader(compact.TypeBinary, 20)

	r := compact.NewReader(w.Bytes())
	h, err := r.ReadListHeader()
	require.NoError(t, err)
	require.Equal(t, 20, h.Size)
	require.Equal(t, byte(compact.TypeBinary), h.ElemType)
}

func TestNestedStructSkip(t *testing.T) {
	w := compact.NewWriter()
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeStruct, 1)
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(7)
	w.WriteStructEnd()
	w.WriteFieldHeader(compact.TypeI32, 2)
	w.WriteI32(99)
	w.WriteStructEnd()

	r := compact.NewReader(w.Bytes())
	r.ReadStructBegin()

	h, err := r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(1), h.ID)
	require.NoError(t, r.Skip(h.Type))

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(2), h.ID)
	v, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(99), v)

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, byte(compact.TypeStop), h.Type)
}

func TestFieldHeaderDeltaEncoding(t *testing.T) {
	w := compact.NewWriter()
	w.WriteStructBegin()
	// ids far enough apart that the short delta form can't be used.
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(1)
	w.WriteFieldHeader(compact.TypeI32, 30)
	w.WriteI32(30)
	w.WriteStructEnd()

	r := compact.NewReader(w.Bytes())
	r.ReadStructBegin()

	h, err := r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(1), h.ID)
	_, _ = r.ReadI32()

	h, err = r.ReadFieldHeader()
	require.NoError(t, err)
	require.Equal(t, int16(30), h.ID)
}

func TestReadFieldHeaderTruncated(t *testing.T) {
	r := compact.NewReader(nil)
	r.ReadStructBegin()
	_, err := r.ReadFieldHeader()
	require.Error(t, err)
}
