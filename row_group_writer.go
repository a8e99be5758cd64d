package parquet

import (
	"io"

	"github.com/cobaltwing/parquet/format"
)

// rowGroupBuilder accumulates one row group's worth of rows, one
// columnBuffer per leaf, before Writer finalizes it into a contiguous run
// of column chunks (SPEC_FULL.md "Row-group finalization").
type rowGroupBuilder struct {
	schema  *Schema
	columns map[*Node]*columnBuffer
	numRows int64
}

func newRowGroupBuilder(schema *Schema) *rowGroupBuilder {
	b := &rowGroupBuilder{schema: schema, columns: make(map[*Node]*columnBuffer, len(schema.Leaves))}
	for _, leaf := range schema.Leaves {
		b.columns[leaf] = newColumnBuffer(leaf)
	}
	return b
}

func (b *rowGroupBuilder) writeRow(row map[string]any) error {
	sh := shredder{columns: b.columns}
	if err := sh.writeRow(b.schema, row); err != nil {
		return err
	}
	b.numRows++
	return nil
}

// estimatedSize is the sum of every column's estimated uncompressed size,
// used to decide when a row group has reached its target size.
func (b *rowGroupBuilder) estimatedSize() int64 {
	var total int64
	for _, c := range b.columns {
		total += c.estimatedSize
	}
	return total
}

// finalize writes every column chunk in schema.Leaves order to w starting
// at offset, and returns the assembled RowGroup metadata plus the total
// number of bytes written.
func (b *rowGroupBuilder) finalize(w io.Writer, offset int64, config *WriterConfig) (*format.RowGroup, int64, error) {
	group := &format.RowGroup{NumRows: b.numRows}
	start := offset
	for _, leaf := range b.schema.Leaves {
		col := b.columns[leaf]
		chunkOffset := offset
		chunk, n, err := col.writeChunk(w, chunkOffset, config)
		if err != nil {
			return nil, 0, err
		}
		chunk.FileOffset = chunkOffset
		offset += n
		group.TotalByteSize += chunk.MetaData.TotalUncompressedSize
		group.Columns = append(group.Columns, *chunk)
	}
	return group, offset - start, nil
}
