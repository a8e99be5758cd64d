package format

import "github.com/cobaltwing/parquet/format/compact"

// ColumnMetaData describes one leaf column's data within one row group.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []KeyValue
	DataPageOffset        int64
	IndexPageOffset       *int64
	DictionaryPageOffset  *int64
	Statistics            *Statistics
	EncodingStats         []PageEncodingStats
	BloomFilterOffset     *int64
	BloomFilterLength     *int32
}

func (c *ColumnMetaData) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(int32(c.Type))

	w.WriteFieldHeader(compact.TypeList, 2)
	w.WriteListHeader(compact.TypeI32, len(c.Encodings))
	for _, e := range c.Encodings {
		w.WriteI32(int32(e))
	}

	w.WriteFieldHeader(compact.TypeList, 3)
	w.WriteListHeader(compact.TypeBinary, len(c.PathInSchema))
	for _, p := range c.PathInSchema {
		w.WriteString(p)
	}

	w.WriteFieldHeader(compact.TypeI32, 4)
	w.WriteI32(int32(c.Codec))

	w.WriteFieldHeader(compact.TypeI64, 5)
	w.WriteI64(c.NumValues)

	w.WriteFieldHeader(compact.TypeI64, 6)
	w.WriteI64(c.TotalUncompressedSize)

	w.WriteFieldHeader(compact.TypeI64, 7)
	w.WriteI64(c.TotalCompressedSize)

	if c.KeyValueMetadata != nil {
		w.WriteFieldHeader(compact.TypeList, 8)
		w.WriteListHeader(compact.TypeStruct, len(c.KeyValueMetadata))
		for i := range c.KeyValueMetadata {
			c.KeyValueMetadata[i].Marshal(w)
		}
	}

	w.WriteFieldHeader(compact.TypeI64, 9)
	w.WriteI64(c.DataPageOffset)

	if c.IndexPageOffset != nil {
		w.WriteFieldHeader(compact.TypeI64, 10)
		w.WriteI64(*c.IndexPageOffset)
	}
	if c.DictionaryPageOffset != nil {
		w.WriteFieldHeader(compact.TypeI64, 11)
		w.WriteI64(*c.DictionaryPageOffset)
	}
	if c.Statistics != nil {
		w.WriteFieldHeader(compact.TypeStruct, 12)
		c.Statistics.Marshal(w)
	}
	if c.EncodingStats != nil {
		w.WriteFieldHeader(compact.TypeList, 13)
		w.WriteListHeader(compact.TypeStruct, len(c.EncodingStats))
		for i := range c.EncodingStats {
			c.EncodingStats[i].Marshal(w)
		}
	}
	if c.BloomFilterOffset != nil {
		w.WriteFieldHeader(compact.TypeI64, 14)
		w.WriteI64(*c.BloomFilterOffset)
	}
	if c.BloomFilterLength != nil {
		w.WriteFieldHeader(compact.TypeI32, 15)
		w.WriteI32(*c.BloomFilterLength)
	}
	w.WriteStructEnd()
}

func (c *ColumnMetaData) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	var have [7]bool
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.Type = Type(v)
			have[0] = true
		case 2:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.Encodings = make([]Encoding, lh.Size)
			for i := range c.Encodings {
				v, err := r.ReadI32()
				if err != nil {
					return err
				}
				c.Encodings[i] = Encoding(v)
			}
			have[1] = true
		case 3:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.PathInSchema = make([]string, lh.Size)
			for i := range c.PathInSchema {
				v, err := r.ReadString()
				if err != nil {
					return err
				}
				c.PathInSchema[i] = v
			}
			have[2] = true
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.Codec = CompressionCodec(v)
			have[3] = true
		case 5:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.NumValues = v
			have[4] = true
		case 6:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.TotalUncompressedSize = v
			have[5] = true
		case 7:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.TotalCompressedSize = v
			have[6] = true
		case 8:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.KeyValueMetadata = make([]KeyValue, lh.Size)
			for i := range c.KeyValueMetadata {
				if err := c.KeyValueMetadata[i].Unmarshal(r); err != nil {
					return err
				}
			}
		case 9:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.DataPageOffset = v
		case 10:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.IndexPageOffset = &v
		case 11:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.DictionaryPageOffset = &v
		case 12:
			st := &Statistics{}
			if err := st.Unmarshal(r); err != nil {
				return err
			}
			c.Statistics = st
		case 13:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			c.EncodingStats = make([]PageEncodingStats, lh.Size)
			for i := range c.EncodingStats {
				if err := c.EncodingStats[i].Unmarshal(r); err != nil {
					return err
				}
			}
		case 14:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.BloomFilterOffset = &v
		case 15:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.BloomFilterLength = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	for i, name := range [...]string{"type", "encodings", "path_in_schema", "codec", "num_values", "total_uncompressed_size", "total_compressed_size"} {
		if !have[i] {
			return errRequired("ColumnMetaData", name)
		}
	}
	return nil
}

// ColumnChunk locates one leaf column's data within a row group, optionally
// in a different file than the footer (FilePath non-nil).
type ColumnChunk struct {
	FilePath          *string
	FileOffset        int64
	MetaData          *ColumnMetaData
	OffsetIndexOffset *int64
	OffsetIndexLength *int32
	ColumnIndexOffset *int64
	ColumnIndexLength *int32
}

func (c *ColumnChunk) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	if c.FilePath != nil {
		w.WriteFieldHeader(compact.TypeBinary, 1)
		w.WriteString(*c.FilePath)
	}
	w.WriteFieldHeader(compact.TypeI64, 2)
	w.WriteI64(c.FileOffset)
	if c.MetaData != nil {
		w.WriteFieldHeader(compact.TypeStruct, 3)
		c.MetaData.Marshal(w)
	}
	if c.OffsetIndexOffset != nil {
		w.WriteFieldHeader(compact.TypeI64, 4)
		w.WriteI64(*c.OffsetIndexOffset)
	}
	if c.OffsetIndexLength != nil {
		w.WriteFieldHeader(compact.TypeI32, 5)
		w.WriteI32(*c.OffsetIndexLength)
	}
	if c.ColumnIndexOffset != nil {
		w.WriteFieldHeader(compact.TypeI64, 6)
		w.WriteI64(*c.ColumnIndexOffset)
	}
	if c.ColumnIndexLength != nil {
		w.WriteFieldHeader(compact.TypeI32, 7)
		w.WriteI32(*c.ColumnIndexLength)
	}
	w.WriteStructEnd()
}

func (c *ColumnChunk) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	haveOffset := false
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			v, err := r.ReadString()
			if err != nil {
				return err
			}
			c.FilePath = &v
		case 2:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.FileOffset = v
			haveOffset = true
		case 3:
			md := &ColumnMetaData{}
			if err := md.Unmarshal(r); err != nil {
				return err
			}
			c.MetaData = md
		case 4:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.OffsetIndexOffset = &v
		case 5:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.OffsetIndexLength = &v
		case 6:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			c.ColumnIndexOffset = &v
		case 7:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			c.ColumnIndexLength = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	if !haveOffset {
		return errRequired("ColumnChunk", "file_offset")
	}
	return nil
}

// RowGroup is a horizontal partition of rows; every ColumnChunk within it
// shares NumRows.
type RowGroup struct {
	Columns             []ColumnChunk
	TotalByteSize        int64
	NumRows              int64
	SortingColumns       []SortingColumn
	FileOffset           *int64
	TotalCompressedSize  *int64
	Ordinal              *int16
}

func (g *RowGroup) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeList, 1)
	w.WriteListHeader(compact.TypeStruct, len(g.Columns))
	for i := range g.Columns {
		g.Columns[i].Marshal(w)
	}
	w.WriteFieldHeader(compact.TypeI64, 2)
	w.WriteI64(g.TotalByteSize)
	w.WriteFieldHeader(compact.TypeI64, 3)
	w.WriteI64(g.NumRows)
	if g.SortingColumns != nil {
		w.WriteFieldHeader(compact.TypeList, 4)
		w.WriteListHeader(compact.TypeStruct, len(g.SortingColumns))
		for i := range g.SortingColumns {
			g.SortingColumns[i].Marshal(w)
		}
	}
	if g.FileOffset != nil {
		w.WriteFieldHeader(compact.TypeI64, 5)
		w.WriteI64(*g.FileOffset)
	}
	if g.TotalCompressedSize != nil {
		w.WriteFieldHeader(compact.TypeI64, 6)
		w.WriteI64(*g.TotalCompressedSize)
	}
	if g.Ordinal != nil {
		w.WriteFieldHeader(compact.TypeI16, 7)
		w.WriteI16(*g.Ordinal)
	}
	w.WriteStructEnd()
}

func (g *RowGroup) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	var have [3]bool
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			g.Columns = make([]ColumnChunk, lh.Size)
			for i := range g.Columns {
				if err := g.Columns[i].Unmarshal(r); err != nil {
					return err
				}
			}
			have[0] = true
		case 2:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			g.TotalByteSize = v
			have[1] = true
		case 3:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			g.NumRows = v
			have[2] = true
		case 4:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			g.SortingColumns = make([]SortingColumn, lh.Size)
			for i := range g.SortingColumns {
				if err := g.SortingColumns[i].Unmarshal(r); err != nil {
					return err
				}
			}
		case 5:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			g.FileOffset = &v
		case 6:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			g.TotalCompressedSize = &v
		case 7:
			v, err := r.ReadI16()
			if err != nil {
				return err
			}
			g.Ordinal = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	for i, name := range [...]string{"columns", "total_byte_size", "num_rows"} {
		if !have[i] {
			return errRequired("RowGroup", name)
		}
	}
	return nil
}
