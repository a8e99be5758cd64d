package parquet_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet"
	"github.com/cobaltwing/parquet/format"
)

// writeAndReadBack writes every row in rows against schema, then opens the
// result back up and returns the reassembled rows of its single row group.
func writeAndReadBack(t *testing.T, schema *parquet.Schema, rows []map[string]any, options ...parquet.WriterOption) []map[string]any {
	t.Helper()

	var buf bytes.Buffer
	w, err := parquet.NewWriter(&buf, schema, options...)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, w.WriteRow(row))
	}
	require.NoError(t, w.Close())

	b := buf.Bytes()
	require.True(t, bytes.HasPrefix(b, []byte("PAR1")))
	require.True(t, bytes.HasSuffix(b, []byte("PAR1")))

	f, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	require.Equal(t, int64(len(rows)), f.NumRows())

	groups := f.RowGroups()
	require.Len(t, groups, 1)
	got, err := groups[0].ReadRows()
	require.NoError(t, err)
	return got
}

// TestWriterPrimitiveColumnsRoundTrip is spec.md §8 scenario 1. BYTE_ARRAY
// leaves come back as raw []byte (the nested-value sum type carries the
// physical representation, not a logical-type-aware Go string), so
// expected rows use []byte for "name" to match what ReadRows produces.
func TestWriterPrimitiveColumnsRoundTrip(t *testing.T) {
	schema := flatPrimitiveSchema(t)
	rows := []map[string]any{
		{"id": int32(1), "name": []byte("a")},
		{"id": int32(2), "name": nil},
		{"id": int32(3), "name": []byte("c")},
	}

	got := writeAndReadBack(t, schema, rows, parquet.Compression(format.Snappy))
	require.Equal(t, rows, got)
}

// TestWriterListRoundTrip is spec.md §8 scenario 2.
func TestWriterListRoundTrip(t *testing.T) {
	schema := listOfInt32Schema(t)

	elementRow := func(xs ...any) map[string]any {
		if xs == nil {
			return map[string]any{"values": nil}
		}
		var elems []any
		for _, x := range xs {
			elems = append(elems, map[string]any{"element": x})
		}
		return map[string]any{"values": map[string]any{"list": elems}}
	}

	rows := []map[string]any{
		elementRow(int32(1), int32(2), int32(3)),
		elementRow(),
		{"values": map[string]any{"list": []any(nil)}},
		elementRow(int32(42)),
		elementRow(int32(10), int32(20), int32(30), int32(40)),
	}

	got := writeAndReadBack(t, schema, rows)
	require.Equal(t, rows, got)
}

// TestWriterListLevelStreams locks the exact D/R stream spec.md §8 scenario
// 2 prints for the `element` leaf, directly on the decoded column values
// rather than through the reassembled rows: D=[3,3,3,0,1,3,3,3,3,3],
// R=[0,1,1,0,0,0,0,1,1,1] for rows [[1,2,3], null, [], [42], [10,20,30,40]].
// This is also the regression test for the repeated-group reconstruction
// bug where the first element of a list read back at the wrong repetition
// level, which made multi-element lists hang ReadRows forever.
func TestWriterListLevelStreams(t *testing.T) {
	schema := listOfInt32Schema(t)

	elementRow := func(xs ...any) map[string]any {
		if xs == nil {
			return map[string]any{"values": nil}
		}
		var elems []any
		for _, x := range xs {
			elems = append(elems, map[string]any{"element": x})
		}
		return map[string]any{"values": map[string]any{"list": elems}}
	}

	rows := []map[string]any{
		elementRow(int32(1), int32(2), int32(3)),
		elementRow(),
		{"values": map[string]any{"list": []any(nil)}},
		elementRow(int32(42)),
		elementRow(int32(10), int32(20), int32(30), int32(40)),
	}

	var buf bytes.Buffer
	w, err := parquet.NewWriter(&buf, schema)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, w.WriteRow(row))
	}
	require.NoError(t, w.Close())

	b := buf.Bytes()
	f, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	cr, err := f.RowGroups()[0].Column(0)
	require.NoError(t, err)
	values, err := cr.ReadValues()
	require.NoError(t, err)

	gotD := make([]int32, len(values))
	gotR := make([]int32, len(values))
	for i, v := range values {
		gotD[i] = v.DefinitionLevel()
		gotR[i] = v.RepetitionLevel()
	}

	wantD := []int32{3, 3, 3, 0, 1, 3, 3, 3, 3, 3}
	wantR := []int32{0, 1, 1, 0, 0, 0, 0, 1, 1, 1}
	require.Equal(t, wantD, gotD)
	require.Equal(t, wantR, gotR)

	// Reassembly itself must also terminate and reproduce the five slots.
	got, err := f.RowGroups()[0].ReadRows()
	require.NoError(t, err)
	require.Equal(t, rows, got)
}

// TestWriterNestedListRoundTrip is spec.md §8 scenario 4: list<list<int32>>
// with a row exercising null, empty and leading-null inner lists.
func TestWriterNestedListRoundTrip(t *testing.T) {
	schema := nestedListSchema(t)

	inner := func(xs ...any) map[string]any {
		var elems []any
		for _, x := range xs {
			elems = append(elems, map[string]any{"element": x})
		}
		return map[string]any{"element": map[string]any{"list": elems}}
	}

	row := map[string]any{
		"values": map[string]any{
			"list": []any{
				inner(int32(1), int32(2)),
				inner(),
				inner(nil, int32(3)),
			},
		},
	}

	got := writeAndReadBack(t, schema, []map[string]any{row})
	require.Equal(t, []map[string]any{row}, got)
}

// TestWriterMapRoundTrip is spec.md §8 scenario 3. Map keys are a required
// BYTE_ARRAY leaf, so they round-trip as []byte just like "name" above.
func TestWriterMapRoundTrip(t *testing.T) {
	mapAnn := format.MapLogicalType()
	elems := []format.SchemaElement{
		{Name: "schema", NumChildren: i32(1)},
		{Name: "entries", RepetitionType: rep(format.Optional), NumChildren: i32(1), LogicalType: &mapAnn},
		{Name: "key_value", RepetitionType: rep(format.Repeated), NumChildren: i32(2)},
		{Name: "key", Type: typ(format.ByteArray), RepetitionType: rep(format.Required)},
		{Name: "value", Type: typ(format.Int32), RepetitionType: rep(format.Optional)},
	}
	schema, err := parquet.NewSchema(elems)
	require.NoError(t, err)

	entry := func(k string, v any) map[string]any {
		return map[string]any{"key": []byte(k), "value": v}
	}
	mapRow := func(entries ...map[string]any) map[string]any {
		if entries == nil {
			return map[string]any{"entries": nil}
		}
		var list []any
		for _, e := range entries {
			list = append(list, e)
		}
		return map[string]any{"entries": map[string]any{"key_value": list}}
	}

	rows := []map[string]any{
		mapRow(entry("a", int32(1)), entry("b", int32(2)), entry("c", int32(3))),
		mapRow(),
		{"entries": map[string]any{"key_value": []any(nil)}},
		mapRow(entry("x", int32(100))),
	}

	// The rows written use string keys, which valueFromAny accepts for
	// BYTE_ARRAY columns just as it accepts []byte.
	writeRows := make([]map[string]any, len(rows))
	for i, r := range rows {
		writeRows[i] = rebuildMapRowForWrite(r)
	}

	got := writeAndReadBack(t, schema, writeRows)
	require.Equal(t, rows, got)
}

// rebuildMapRowForWrite converts a map row's []byte keys back into string
// keys, the shape shredder.writeField accepts for a BYTE_ARRAY leaf.
func rebuildMapRowForWrite(row map[string]any) map[string]any {
	entriesField, ok := row["entries"]
	if !ok || entriesField == nil {
		return map[string]any{"entries": nil}
	}
	entries := entriesField.(map[string]any)
	kvField := entries["key_value"]
	list, _ := kvField.([]any)
	if list == nil {
		return map[string]any{"entries": map[string]any{"key_value": []any(nil)}}
	}
	out := make([]any, len(list))
	for i, e := range list {
		m := e.(map[string]any)
		out[i] = map[string]any{"key": string(m["key"].([]byte)), "value": m["value"]}
	}
	return map[string]any{"entries": map[string]any{"key_value": out}}
}

// TestWriterNullCountStatistics checks the null_count statistic spec.md §8
// scenario 1 calls out explicitly.
func TestWriterNullCountStatistics(t *testing.T) {
	schema := flatPrimitiveSchema(t)
	rows := []map[string]any{
		{"id": int32(1), "name": "a"},
		{"id": int32(2), "name": nil},
		{"id": int32(3), "name": "c"},
	}

	var buf bytes.Buffer
	w, err := parquet.NewWriter(&buf, schema)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, w.WriteRow(row))
	}
	require.NoError(t, w.Close())

	b := buf.Bytes()
	f, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	group := f.Metadata().RowGroups[0]
	var nameChunk *format.ColumnChunk
	for i := range group.Columns {
		c := &group.Columns[i]
		if parquet.ColumnPath(c.MetaData.PathInSchema).Equal(parquet.ColumnPath{"name"}) {
			nameChunk = c
		}
	}
	require.NotNil(t, nameChunk)
	require.NotNil(t, nameChunk.MetaData.Statistics)
	require.NotNil(t, nameChunk.MetaData.Statistics.NullCount)
	require.Equal(t, int64(1), *nameChunk.MetaData.Statistics.NullCount)
}

// TestWriterDictionaryEncoding is spec.md §8 scenario 5: a low-cardinality
// string column should pick up a dictionary page and RLE_DICTIONARY data.
func TestWriterDictionaryEncoding(t *testing.T) {
	str := format.StringLogicalType()
	elems := []format.SchemaElement{
		{Name: "schema", NumChildren: i32(1)},
		{Name: "label", Type: typ(format.ByteArray), RepetitionType: rep(format.Required), LogicalType: &str},
	}
	schema, err := parquet.NewSchema(elems)
	require.NoError(t, err)

	vocab := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	var writeRows, wantRows []map[string]any
	for i := 0; i < 1000; i++ {
		label := vocab[i%len(vocab)]
		writeRows = append(writeRows, map[string]any{"label": label})
		wantRows = append(wantRows, map[string]any{"label": []byte(label)})
	}

	var buf bytes.Buffer
	w, err := parquet.NewWriter(&buf, schema, parquet.DictionaryEncoding(true))
	require.NoError(t, err)
	for _, row := range writeRows {
		require.NoError(t, w.WriteRow(row))
	}
	require.NoError(t, w.Close())

	b := buf.Bytes()
	f, err := parquet.OpenFile(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	chunk := &f.Metadata().RowGroups[0].Columns[0]
	require.NotNil(t, chunk.MetaData.DictionaryPageOffset)

	got, err := f.RowGroups()[0].ReadRows()
	require.NoError(t, err)
	require.Equal(t, wantRows, got)
}

// TestWriterRejectsMissingRequiredField ensures shredding a nil value for
// a required leaf fails loudly instead of silently emitting a null.
func TestWriterRejectsMissingRequiredField(t *testing.T) {
	schema := flatPrimitiveSchema(t)
	var buf bytes.Buffer
	w, err := parquet.NewWriter(&buf, schema)
	require.NoError(t, err)
	err = w.WriteRow(map[string]any{"id": nil, "name": "a"})
	require.Error(t, err)
}
