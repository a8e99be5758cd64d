package parquet

import (
	"encoding/binary"
	"io"

	"github.com/cobaltwing/parquet/format"
)

const magic = "PAR1"

// File represents an opened parquet file: its footer metadata and the
// reconstructed schema tree, plus the io.ReaderAt column chunks are read
// from on demand (spec.md §5 "Only read what's asked for").
//
// OpenFile reads only the leading/trailing magic and the footer; it does
// not touch row group or page bytes, so opening a file never validates
// page checksums.
type File struct {
	reader   io.ReaderAt
	size     int64
	metadata *format.FileMetaData
	schema   *Schema
}

// OpenFile reads and validates the magic header/footer and decodes the
// footer metadata from r, which must expose exactly size bytes.
func OpenFile(r io.ReaderAt, size int64, options ...FileOption) (*File, error) {
	c := DefaultFileConfig()
	c.Apply(options...)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if size < int64(len(magic)*2+4) {
		return nil, errKind(InvalidMagic, "file of %d bytes is smaller than the minimum valid parquet file", size)
	}

	head := make([]byte, len(magic))
	if _, err := r.ReadAt(head, 0); err != nil {
		return nil, wrapKind(Io, err, "reading magic header")
	}
	if string(head) != magic {
		return nil, errKind(InvalidMagic, "header %q is not %q", head, magic)
	}

	tail := make([]byte, len(magic)+4)
	if _, err := r.ReadAt(tail, size-int64(len(tail))); err != nil {
		return nil, wrapKind(Io, err, "reading magic footer")
	}
	if string(tail[4:]) != magic {
		return nil, errKind(InvalidMagic, "footer %q is not %q", tail[4:], magic)
	}

	footerSize := int64(binary.LittleEndian.Uint32(tail[:4]))
	if footerSize < 0 || footerSize > size-int64(len(magic)*2+4) {
		return nil, errKind(InvalidMetadata, "footer length %d is impossible for a file of %d bytes", footerSize, size)
	}

	footerData := make([]byte, footerSize)
	if _, err := r.ReadAt(footerData, size-int64(len(tail))-footerSize); err != nil {
		return nil, wrapKind(Io, err, "reading footer")
	}

	metadata, err := format.Unmarshal(footerData)
	if err != nil {
		return nil, wrapKind(InvalidMetadata, err, "decoding footer")
	}
	if len(metadata.Schema) == 0 {
		return nil, errKind(InvalidMetadata, "file metadata has an empty schema")
	}

	schema, err := NewSchema(metadata.Schema)
	if err != nil {
		return nil, err
	}

	return &File{reader: r, size: size, metadata: metadata, schema: schema}, nil
}

func (f *File) Schema() *Schema { return f.schema }

func (f *File) Metadata() *format.FileMetaData { return f.metadata }

func (f *File) NumRows() int64 { return f.metadata.NumRows }

func (f *File) Size() int64 { return f.size }

// RowGroups returns readers for each of the file's row groups, in order.
func (f *File) RowGroups() []*RowGroupReader {
	out := make([]*RowGroupReader, len(f.metadata.RowGroups))
	for i := range f.metadata.RowGroups {
		out[i] = newRowGroupReader(f.reader, f.schema, &f.metadata.RowGroups[i])
	}
	return out
}

