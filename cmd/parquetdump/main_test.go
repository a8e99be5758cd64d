package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet"
	"github.com/cobaltwing/parquet/format"
)

// TestDumpOutput writes a small file with the library's own writer, runs
// dump against it, and compares the output against a golden text block
// with a unified diff on mismatch, the same style the teacher's
// writer_test.go uses to report failures.
func TestDumpOutput(t *testing.T) {
	intType := format.Int32
	req := format.Required
	elems := []format.SchemaElement{
		{Name: "schema", NumChildren: func() *int32 { n := int32(1); return &n }()},
		{Name: "id", Type: &intType, RepetitionType: &req},
	}
	schema, err := parquet.NewSchema(elems)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)

	w, err := parquet.NewWriter(f, schema, parquet.CreatedBy("parquetdump test"))
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(map[string]any{"id": int32(1)}))
	require.NoError(t, w.WriteRow(map[string]any{"id": int32(2)}))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	require.NoError(t, dump(path, &buf))

	want := `version: 1
rows: 2
row groups: 1
created by: parquetdump test

group schema
  INT32 id

row group 0: 2 rows, 1 columns
  column 0: [id], 2 values, codec=UNCOMPRESSED
    nulls: 0
`

	got := buf.String()
	if got != want {
		edits := myers.ComputeEdits(span.URIFromPath("want.txt"), want, got)
		diff := fmt.Sprint(gotextdiff.ToUnified("want.txt", "got.txt", want, edits))
		t.Errorf("dump output mismatch:\n%s", diff)
	}
}
