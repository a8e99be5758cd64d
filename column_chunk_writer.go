package parquet

import (
	"io"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

// columnBuffer accumulates one leaf column's values for an entire row group
// in memory before finalize chunks them into pages (SPEC_FULL.md "Page
// writer"): unlike a true streaming writer, this implementation only knows
// a dictionary's final contents once every row has been shredded, so
// column chunks are finalized in one pass over the whole row group rather
// than flushed incrementally.
type columnBuffer struct {
	leaf          *Node
	values        []Value
	estimatedSize int64
}

func newColumnBuffer(leaf *Node) *columnBuffer { return &columnBuffer{leaf: leaf} }

func (c *columnBuffer) append(v Value) {
	c.values = append(c.values, v)
	c.estimatedSize += estimatedValueSize(v)
}

// estimatedValueSize approximates the on-disk PLAIN footprint of v, used
// only to decide where to cut page and row-group boundaries.
func estimatedValueSize(v Value) int64 {
	switch v.Kind() {
	case format.Boolean:
		return 1
	case format.Int32, format.Float:
		return 4
	case format.Int64, format.Double:
		return 8
	case format.Int96:
		return 12
	default:
		return int64(len(v.ByteArray())) + 4
	}
}

// writeChunk encodes the buffered values into a dictionary page (if
// enabled and the column carries at least one non-null value) followed by
// one or more Data Page V1s chunked to roughly config.PageBufferSize
// bytes, writes them to w starting at baseOffset, and returns the
// resulting ColumnChunk metadata and the number of bytes written.
func (c *columnBuffer) writeChunk(w io.Writer, baseOffset int64, config *WriterConfig) (*format.ColumnChunk, int64, error) {
	leaf := c.leaf
	kind := *leaf.Type
	maxDef, maxRep := 0, 0
	if leaf.Level != nil {
		maxDef = leaf.Level.MaxDefinitionLevel
		maxRep = leaf.Level.MaxRepetitionLevel
	}

	codec, err := LookupCodec(config.Compression)
	if err != nil {
		return nil, 0, err
	}

	meta := &format.ColumnMetaData{
		Type:         kind,
		PathInSchema: []string(leaf.Path()),
		Codec:        config.Compression,
		NumValues:    int64(len(c.values)),
	}
	// Column-chunk statistics are always computed; DataPageStatistics only
	// controls whether per-page statistics are additionally attached to
	// each DataPageHeader (see the page loop below).
	meta.Statistics = columnStatistics(c.values, maxDef, kind)

	var written int64
	pos := baseOffset

	var dict *Dictionary
	if config.DictionaryEncoding {
		dict = NewDictionary(kind, leaf.TypeLength)
		for _, v := range c.values {
			if int(v.DefinitionLevel()) == maxDef {
				dict.Insert(v)
			}
		}
		if dict.Len() == 0 {
			dict = nil
		}
	}

	if dict != nil {
		n, err := writeDictionaryPage(w, dict, codec)
		if err != nil {
			return nil, 0, err
		}
		offset := pos
		meta.DictionaryPageOffset = &offset
		pos += n
		written += n
		meta.EncodingStats = append(meta.EncodingStats, format.PageEncodingStats{
			PageType: format.DictionaryPage,
			Encoding: format.PlainEncoding,
			Count:    1,
		})
	}

	meta.DataPageOffset = pos

	pageEncoding := format.PlainEncoding
	if dict != nil {
		pageEncoding = format.RLEDictionary
	}
	meta.Encodings = append(meta.Encodings, format.PlainEncoding)
	if dict != nil {
		meta.Encodings = append(meta.Encodings, format.RLEDictionary)
	}

	pageCount := int32(0)
	for _, chunk := range chunkValues(c.values, config.PageBufferSize) {
		var pageStats *format.Statistics
		if config.DataPageStatistics {
			pageStats = columnStatistics(chunk, maxDef, kind)
		}
		n, uncompressed, compressed, err := writeDataPage(w, chunk, maxRep, maxDef, kind, pageEncoding, dict, codec, pageStats)
		if err != nil {
			return nil, 0, err
		}
		pos += n
		written += n
		meta.TotalUncompressedSize += uncompressed
		meta.TotalCompressedSize += compressed
		pageCount++
	}
	meta.EncodingStats = append(meta.EncodingStats, format.PageEncodingStats{
		PageType: format.DataPage,
		Encoding: pageEncoding,
		Count:    pageCount,
	})

	return &format.ColumnChunk{MetaData: meta}, written, nil
}

// chunkValues splits values into runs whose estimated PLAIN size is each
// roughly targetBytes, never splitting a run shorter than one value.
// Splitting a column's logical slot stream anywhere is safe: a column
// chunk's pages are concatenated back into one flat value stream before
// nested reconstruction runs (column_chunk_reader.go), so a cut never
// needs to land on a row boundary.
func chunkValues(values []Value, targetBytes int) [][]Value {
	if len(values) == 0 {
		return nil
	}
	if targetBytes <= 0 {
		return [][]Value{values}
	}
	var chunks [][]Value
	start := 0
	var size int64
	for i, v := range values {
		size += estimatedValueSize(v)
		if size >= int64(targetBytes) {
			chunks = append(chunks, values[start:i+1])
			start = i + 1
			size = 0
		}
	}
	if start < len(values) {
		chunks = append(chunks, values[start:])
	}
	return chunks
}

func writeDictionaryPage(w io.Writer, dict *Dictionary, codec compress.Codec) (int64, error) {
	hdr, payload, err := EncodeDictionaryPage(dict)
	if err != nil {
		return 0, err
	}
	compressed, err := codec.Encode(nil, payload)
	if err != nil {
		return 0, wrapKind(CodecError, err, "compressing dictionary page")
	}
	pageHdr := &format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(compressed)),
		DictionaryPageHeader: hdr,
	}
	headerBytes := AppendPageHeader(nil, pageHdr)
	if _, err := w.Write(headerBytes); err != nil {
		return 0, wrapKind(Io, err, "writing dictionary page header")
	}
	if _, err := w.Write(compressed); err != nil {
		return 0, wrapKind(Io, err, "writing dictionary page")
	}
	return int64(len(headerBytes) + len(compressed)), nil
}

func writeDataPage(w io.Writer, values []Value, maxRep, maxDef int, kind format.Type, encoding format.Encoding, dict *Dictionary, codec compress.Codec, stats *format.Statistics) (written, uncompressedSize, compressedSize int64, err error) {
	var payload []byte
	if dict != nil {
		payload, err = EncodeDataPageV1Dictionary(values, maxRep, maxDef, dict)
	} else {
		payload, err = EncodeDataPageV1(values, maxRep, maxDef, kind)
	}
	if err != nil {
		return 0, 0, 0, err
	}

	compressed, err := codec.Encode(nil, payload)
	if err != nil {
		return 0, 0, 0, wrapKind(CodecError, err, "compressing data page")
	}

	pageHdr := &format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(compressed)),
		DataPageHeader: &format.DataPageHeader{
			NumValues:               int32(len(values)),
			Encoding:                encoding,
			DefinitionLevelEncoding: format.RLE,
			RepetitionLevelEncoding: format.RLE,
			Statistics:              stats,
		},
	}
	headerBytes := AppendPageHeader(nil, pageHdr)
	if _, err := w.Write(headerBytes); err != nil {
		return 0, 0, 0, wrapKind(Io, err, "writing data page header")
	}
	if _, err := w.Write(compressed); err != nil {
		return 0, 0, 0, wrapKind(Io, err, "writing data page")
	}
	return int64(len(headerBytes) + len(compressed)), int64(len(payload)), int64(len(compressed)), nil
}

// columnStatistics computes min/max/null-count statistics over values,
// using the same byte-order/numeric comparison dictionary.go's Bounds
// relies on, so reader and writer agree on ordering.
func columnStatistics(values []Value, maxDef int, kind format.Type) *format.Statistics {
	var (
		min, max Value
		have     bool
		nullCount int64
	)
	for _, v := range values {
		if int(v.DefinitionLevel()) != maxDef {
			nullCount++
			continue
		}
		if !have {
			min, max, have = v, v, true
			continue
		}
		if compareValues(v, min) < 0 {
			min = v
		}
		if compareValues(v, max) > 0 {
			max = v
		}
	}
	st := &format.Statistics{NullCount: &nullCount}
	if have {
		if b, err := plainScalarBytes(min, kind); err == nil {
			st.MinValue = b
			st.Min = b
		}
		if b, err := plainScalarBytes(max, kind); err == nil {
			st.MaxValue = b
			st.Max = b
		}
	}
	return st
}

// plainScalarBytes PLAIN-encodes a single value, for embedding as a
// Statistics min/max entry.
func plainScalarBytes(v Value, kind format.Type) ([]byte, error) {
	return appendPlainValue(nil, v, kind), nil
}
