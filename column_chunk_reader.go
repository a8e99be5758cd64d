package parquet

import (
	"io"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

// maxPageHeaderWindow bounds the single speculative read used to locate a
// page header without knowing its encoded size up front; real headers are
// a few dozen bytes, so this comfortably covers one with room to spare.
const maxPageHeaderWindow = 4096

// ColumnChunkReader reads one column chunk's pages from a row group,
// producing the flat (value, levels) stream for its leaf column.
type ColumnChunkReader struct {
	r     io.ReaderAt
	leaf  *Node
	chunk *format.ColumnChunk
	codec compress.Codec
	dict  *Dictionary
}

func newColumnChunkReader(r io.ReaderAt, leaf *Node, chunk *format.ColumnChunk) (*ColumnChunkReader, error) {
	codec, err := LookupCodec(chunk.MetaData.Codec)
	if err != nil {
		return nil, err
	}
	return &ColumnChunkReader{r: r, leaf: leaf, chunk: chunk, codec: codec}, nil
}

// Metadata returns the column chunk's footer metadata (path, codec,
// encodings, statistics, byte sizes).
func (c *ColumnChunkReader) Metadata() *format.ColumnMetaData { return c.chunk.MetaData }

// ReadValues decodes every page of the column chunk in order and returns
// the full flat value stream (including nulls), one entry per logical
// slot, each carrying its definition and repetition levels.
func (c *ColumnChunkReader) ReadValues() ([]Value, error) {
	meta := c.chunk.MetaData

	offset := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil {
		offset = *meta.DictionaryPageOffset
	}

	var values []Value
	remaining := meta.NumValues

	for remaining > 0 {
		hdr, payload, headerAndPayloadLen, err := c.readPage(offset)
		if err != nil {
			return nil, err
		}
		offset += headerAndPayloadLen

		switch hdr.Type {
		case format.DictionaryPage:
			if hdr.DictionaryPageHeader == nil {
				return nil, errKind(InvalidMetadata, "dictionary page missing its header")
			}
			c.dict = NewDictionary(meta.Type, c.leaf.TypeLength)
			if err := DecodeDictionaryPage(c.dict, hdr.DictionaryPageHeader, payload); err != nil {
				return nil, err
			}

		case format.DataPage:
			if hdr.DataPageHeader == nil {
				return nil, errKind(InvalidMetadata, "data page missing its header")
			}
			dh := hdr.DataPageHeader
			if (c.leaf.Level.MaxRepetitionLevel > 0 && dh.RepetitionLevelEncoding == format.BitPacked) ||
				(c.leaf.Level.MaxDefinitionLevel > 0 && dh.DefinitionLevelEncoding == format.BitPacked) {
				return nil, errKind(Unsupported, "BIT_PACKED level encoding is not implemented")
			}
			page, err := DecodeDataPageV1(payload, int(hdr.DataPageHeader.NumValues),
				c.leaf.Level.MaxRepetitionLevel, c.leaf.Level.MaxDefinitionLevel,
				meta.Type, c.leaf.TypeLength, hdr.DataPageHeader.Encoding, c.dict)
			if err != nil {
				return nil, err
			}
			values = append(values, page.Values()...)
			remaining -= int64(hdr.DataPageHeader.NumValues)

		case format.IndexPage:
			// Index pages carry no values; their body is skipped.

		default:
			return nil, errKind(Unsupported, "page type %s is not implemented", hdr.Type)
		}
	}

	return values, nil
}

// readPage decodes the page header located at offset and returns it along
// with its decompressed payload and the total number of bytes (header +
// compressed payload) it occupies in the file.
func (c *ColumnChunkReader) readPage(offset int64) (*format.PageHeader, []byte, int64, error) {
	window := make([]byte, maxPageHeaderWindow)
	n, err := c.r.ReadAt(window, offset)
	if err != nil && err != io.EOF {
		return nil, nil, 0, wrapKind(Io, err, "reading page header at offset %d", offset)
	}
	window = window[:n]

	hdr, headerSize, err := ReadPageHeader(window)
	if err != nil {
		return nil, nil, 0, err
	}

	compressed := window[headerSize:]
	if len(compressed) < int(hdr.CompressedPageSize) {
		compressed = make([]byte, hdr.CompressedPageSize)
		if _, err := c.r.ReadAt(compressed, offset+int64(headerSize)); err != nil {
			return nil, nil, 0, wrapKind(Io, err, "reading page payload at offset %d", offset+int64(headerSize))
		}
	} else {
		compressed = compressed[:hdr.CompressedPageSize]
	}

	payload, err := c.codec.Decode(make([]byte, 0, hdr.UncompressedPageSize), compressed)
	if err != nil {
		return nil, nil, 0, wrapKind(CodecError, err, "decompressing page at offset %d", offset)
	}
	if len(payload) != int(hdr.UncompressedPageSize) {
		return nil, nil, 0, errKind(CorruptPage, "page at offset %d decompressed to %d bytes, header declares %d", offset, len(payload), hdr.UncompressedPageSize)
	}

	return hdr, payload, int64(headerSize) + int64(hdr.CompressedPageSize), nil
}
