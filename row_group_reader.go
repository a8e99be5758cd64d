package parquet

import (
	"io"

	"github.com/cobaltwing/parquet/format"
)

// RowGroupReader reads one row group's column chunks from a file. Column
// chunks are read lazily: opening a RowGroupReader touches no page bytes
// (spec.md §3 "Lifecycle").
type RowGroupReader struct {
	r      io.ReaderAt
	schema *Schema
	group  *format.RowGroup
}

func newRowGroupReader(r io.ReaderAt, schema *Schema, group *format.RowGroup) *RowGroupReader {
	return &RowGroupReader{r: r, schema: schema, group: group}
}

func (g *RowGroupReader) NumRows() int64 { return g.group.NumRows }

// NumColumns returns the number of leaf columns in the schema, one per
// column chunk the row group is expected to carry.
func (g *RowGroupReader) NumColumns() int { return len(g.schema.Leaves) }

// Column returns a reader for the i-th leaf column, in the same depth-first
// order as Schema.Leaves.
func (g *RowGroupReader) Column(i int) (*ColumnChunkReader, error) {
	if i < 0 || i >= len(g.schema.Leaves) {
		return nil, errKind(OutOfRange, "column index %d out of range [0,%d)", i, len(g.schema.Leaves))
	}
	leaf := g.schema.Leaves[i]
	chunk, err := g.chunkForLeaf(leaf)
	if err != nil {
		return nil, err
	}
	return newColumnChunkReader(g.r, leaf, chunk)
}

// chunkForLeaf locates the ColumnChunk matching leaf's path_in_schema.
// Column chunks are matched by path rather than position because a footer
// is free to list them in any order relative to the schema's depth-first
// leaf order (spec.md §4.D).
func (g *RowGroupReader) chunkForLeaf(leaf *Node) (*format.ColumnChunk, error) {
	path := leaf.Path()
	for i := range g.group.Columns {
		c := &g.group.Columns[i]
		if c.MetaData == nil {
			continue
		}
		if ColumnPath(c.MetaData.PathInSchema).Equal(path) {
			return c, nil
		}
	}
	return nil, errKind(InvalidMetadata, "row group has no column chunk for %q", path.String())
}

// ReadRows decodes every leaf column of the row group and reassembles the
// nested rows (spec.md §4.F "Nested reconstruction"). The returned maps
// mirror the schema tree exactly, including LIST/MAP wrapper levels; see
// DESIGN.md for why this implementation does not sugar those away.
func (g *RowGroupReader) ReadRows() ([]map[string]any, error) {
	perLeaf := make(map[*Node][]Value, len(g.schema.Leaves))
	for _, leaf := range g.schema.Leaves {
		cr, err := g.columnReaderForLeaf(leaf)
		if err != nil {
			return nil, err
		}
		values, err := cr.ReadValues()
		if err != nil {
			return nil, err
		}
		perLeaf[leaf] = values
	}

	asm := NewAssembler(g.schema, perLeaf)
	rows := make([]map[string]any, 0, g.group.NumRows)
	for asm.HasMore() {
		rows = append(rows, asm.Next())
	}
	return rows, nil
}

func (g *RowGroupReader) columnReaderForLeaf(leaf *Node) (*ColumnChunkReader, error) {
	chunk, err := g.chunkForLeaf(leaf)
	if err != nil {
		return nil, err
	}
	return newColumnChunkReader(g.r, leaf, chunk)
}
