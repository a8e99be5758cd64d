package parquet

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/cobaltwing/parquet/format"
)

// Writer assembles rows into row groups and serializes them into a
// parquet file: magic header, one or more row groups of column chunks,
// and a Thrift-compact footer followed by the magic trailer (spec.md §4.F
// "Writer"). Row groups are buffered in memory and flushed once their
// estimated size reaches RowGroupTargetSize, or when Close is called.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w      io.Writer
	schema *Schema
	config *WriterConfig
	offset int64
	meta   *format.FileMetaData
	rg     *rowGroupBuilder
	closed bool
}

// NewWriter creates a Writer that serializes rows conforming to schema to
// w, writing the magic header immediately.
func NewWriter(w io.Writer, schema *Schema, options ...WriterOption) (*Writer, error) {
	c := DefaultWriterConfig()
	c.Apply(options...)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	n, err := io.WriteString(w, magic)
	if err != nil {
		return nil, wrapKind(Io, err, "writing magic header")
	}

	return &Writer{
		w:      w,
		schema: schema,
		config: c,
		offset: int64(n),
		meta:   &format.FileMetaData{Version: 1, Schema: schema.Flatten()},
		rg:     newRowGroupBuilder(schema),
	}, nil
}

// WriteRow shreds row against the schema and appends it to the current
// row group, flushing the row group first if it has reached
// RowGroupTargetSize.
func (wr *Writer) WriteRow(row map[string]any) error {
	if wr.closed {
		return errKind(Malformed, "write to a closed writer")
	}
	if err := wr.rg.writeRow(row); err != nil {
		return err
	}
	wr.meta.NumRows++
	if wr.rg.estimatedSize() >= wr.config.RowGroupTargetSize {
		return wr.flushRowGroup()
	}
	return nil
}

func (wr *Writer) flushRowGroup() error {
	if wr.rg.numRows == 0 {
		return nil
	}
	group, n, err := wr.rg.finalize(wr.w, wr.offset, wr.config)
	if err != nil {
		return err
	}
	wr.offset += n
	wr.meta.RowGroups = append(wr.meta.RowGroups, *group)
	wr.rg = newRowGroupBuilder(wr.schema)
	return nil
}

// Close flushes any buffered rows, writes the footer, and writes the
// trailing magic. It must be called exactly once; after Close the Writer
// must not be used again.
func (wr *Writer) Close() error {
	if wr.closed {
		return nil
	}
	wr.closed = true

	if err := wr.flushRowGroup(); err != nil {
		return err
	}

	if wr.config.CreatedBy != "" {
		createdBy := wr.config.CreatedBy
		wr.meta.CreatedBy = &createdBy
	}
	if len(wr.config.KeyValueMetadata) > 0 {
		keys := make([]string, 0, len(wr.config.KeyValueMetadata))
		for k := range wr.config.KeyValueMetadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := wr.config.KeyValueMetadata[k]
			wr.meta.KeyValueMetadata = append(wr.meta.KeyValueMetadata, format.KeyValue{Key: k, Value: &v})
		}
	}

	footer := format.Marshal(wr.meta)
	if _, err := wr.w.Write(footer); err != nil {
		return wrapKind(Io, err, "writing footer")
	}

	var tail [4 + len(magic)]byte
	binary.LittleEndian.PutUint32(tail[:4], uint32(len(footer)))
	copy(tail[4:], magic)
	if _, err := wr.w.Write(tail[:]); err != nil {
		return wrapKind(Io, err, "writing footer trailer")
	}
	return nil
}
