package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet/format"
)

func i32(v int32) *int32 { return &v }
func i64(v int64) *int64 { return &v }
func str(v string) *string { return &v }

// TestFileMetaDataRoundTrip exercises spec.md §8's footer round-trip
// property: thrift_parse(thrift_write(meta)) == meta.
func TestFileMetaDataRoundTrip(t *testing.T) {
	intType := format.Int32
	byteType := format.ByteArray
	req := format.Required
	opt := format.Optional
	stringLT := format.StringLogicalType()

	meta := &format.FileMetaData{
		Version: 1,
		Schema: []format.SchemaElement{
			{Name: "schema", NumChildren: i32(2)},
			{Name: "id", Type: &intType, RepetitionType: &req},
			{Name: "name", Type: &byteType, RepetitionType: &opt, LogicalType: &stringLT},
		},
		NumRows: 3,
		RowGroups: []format.RowGroup{
			{
				NumRows:       3,
				TotalByteSize: 128,
				Columns: []format.ColumnChunk{
					{
						FileOffset: 4,
						MetaData: &format.ColumnMetaData{
							Type:                  intType,
							Encodings:             []format.Encoding{format.PlainEncoding},
							PathInSchema:          []string{"id"},
							Codec:                 format.Snappy,
							NumValues:             3,
							TotalUncompressedSize: 12,
							TotalCompressedSize:   10,
							DataPageOffset:        4,
							Statistics: &format.Statistics{
								NullCount: i64(0),
							},
						},
					},
				},
			},
		},
		CreatedBy: str("test-suite"),
		KeyValueMetadata: []format.KeyValue{
			{Key: "k", Value: str("v")},
		},
	}

	encoded := format.Marshal(meta)
	decoded, err := format.Unmarshal(encoded)
	require.NoError(t, err)
	require.Equal(t, meta, decoded)
}

// TestFileMetaDataZeroValuedRequiredFieldsRoundTrip confirms a required
// field that is merely zero-valued (empty schema/row_groups, NumRows 0)
// still round-trips: Marshal always emits fields 1-4, so "present but
// zero" must not be conflated with "absent" by Unmarshal's required-field
// check (spec.md §4.D).
func TestFileMetaDataZeroValuedRequiredFieldsRoundTrip(t *testing.T) {
	meta := &format.FileMetaData{
		Version:   1,
		Schema:    []format.SchemaElement{{Name: "schema", NumChildren: i32(0)}},
		NumRows:   0,
		RowGroups: nil,
	}
	encoded := format.Marshal(meta)
	decoded, err := format.Unmarshal(encoded)
	require.NoError(t, err)
	require.Equal(t, meta.Version, decoded.Version)
	require.Equal(t, meta.NumRows, decoded.NumRows)
	require.Empty(t, decoded.RowGroups)
}

// TestFileMetaDataRejectsEmptyBuffer exercises spec.md §8 scenario 6: an
// empty footer ends before the struct's stop field, so decoding fails on
// truncated input.
func TestFileMetaDataRejectsEmptyBuffer(t *testing.T) {
	_, err := format.Unmarshal(nil)
	require.Error(t, err)
}
