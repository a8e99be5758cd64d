// Package format defines the Thrift structures that make up a Parquet
// file's footer and page headers, together with their Thrift Compact
// Binary Protocol encode/decode methods. The struct shapes and field ids
// mirror the upstream parquet.thrift definition; the encode/decode logic
// is hand-written against format/compact rather than generated, since no
// Thrift IDL compiler runs as part of this build.
package format

import (
	"fmt"

	"github.com/cobaltwing/parquet/format/compact"
)

// Type is the physical on-disk representation of a primitive value.
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return fmt.Sprintf("Type(%d)", int32(t))
	}
}

// FieldRepetitionType records how many times a field may occur.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return fmt.Sprintf("FieldRepetitionType(%d)", int32(r))
	}
}

// Encoding identifies how a data or dictionary page's values are packed.
type Encoding int32

const (
	PlainEncoding Encoding = iota
	_                      // GROUP_VAR_INT, never implemented upstream either
	PlainDictionary
	RLE
	BitPacked // deprecated
	DeltaBinaryPacked
	DeltaLengthByteArray
	DeltaByteArray
	RLEDictionary
	ByteStreamSplit
)

func (e Encoding) String() string {
	switch e {
	case PlainEncoding:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return fmt.Sprintf("Encoding(%d)", int32(e))
	}
}

// CompressionCodec identifies the compression applied to a page's payload.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = iota
	Snappy
	Gzip
	Lzo
	Brotli
	Lz4
	Zstd
	Lz4Raw
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Lzo:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return fmt.Sprintf("CompressionCodec(%d)", int32(c))
	}
}

// PageType distinguishes data, dictionary, and index pages.
type PageType int32

const (
	DataPage PageType = iota
	IndexPage
	DictionaryPage
	DataPageV2
)

func (p PageType) String() string {
	switch p {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return fmt.Sprintf("PageType(%d)", int32(p))
	}
}

// ConvertedType is the legacy logical-type annotation, superseded by
// LogicalType but still written for backward compatibility by some
// writers. This package decodes both annotations and the schema Node keeps
// both as read; no reader code chooses between them (spec open question,
// see DESIGN.md).
type ConvertedType int32

const (
	UTF8 ConvertedType = iota
	Map
	MapKeyValue
	List
	Enum
	Decimal
	Date
	TimeMillis
	TimeMicros
	TimestampMillis
	TimestampMicros
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32ConvertedType
	Int64ConvertedType
	Json
	Bson
	Interval
)

// field ids, shared across struct (de)serialization methods below.
const (
	fieldMax              = 1
	fieldMin              = 2
	fieldNullCount        = 3
	fieldDistinctCount    = 4
	fieldMaxValue         = 5
	fieldMinValue         = 6
	fieldIsMaxValueExact  = 7
	fieldIsMinValueExact  = 8
)

// Statistics carries optional per-column-chunk summary statistics.
type Statistics struct {
	Max             []byte
	Min             []byte
	NullCount       *int64
	DistinctCount   *int64
	MaxValue        []byte
	MinValue        []byte
	IsMaxValueExact *bool
	IsMinValueExact *bool
}

func (s *Statistics) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	if s.Max != nil {
		w.WriteFieldHeader(compact.TypeBinary, fieldMax)
		w.WriteBinary(s.Max)
	}
	if s.Min != nil {
		w.WriteFieldHeader(compact.TypeBinary, fieldMin)
		w.WriteBinary(s.Min)
	}
	if s.NullCount != nil {
		w.WriteFieldHeader(compact.TypeI64, fieldNullCount)
		w.WriteI64(*s.NullCount)
	}
	if s.DistinctCount != nil {
		w.WriteFieldHeader(compact.TypeI64, fieldDistinctCount)
		w.WriteI64(*s.DistinctCount)
	}
	if s.MaxValue != nil {
		w.WriteFieldHeader(compact.TypeBinary, fieldMaxValue)
		w.WriteBinary(s.MaxValue)
	}
	if s.MinValue != nil {
		w.WriteFieldHeader(compact.TypeBinary, fieldMinValue)
		w.WriteBinary(s.MinValue)
	}
	if s.IsMaxValueExact != nil {
		w.WriteBoolField(fieldIsMaxValueExact, *s.IsMaxValueExact)
	}
	if s.IsMinValueExact != nil {
		w.WriteBoolField(fieldIsMinValueExact, *s.IsMinValueExact)
	}
	w.WriteStructEnd()
}

func (s *Statistics) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if h.Type == compact.TypeStop {
			return nil
		}
		switch h.ID {
		case fieldMax:
			v, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.Max = append([]byte(nil), v...)
		case fieldMin:
			v, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.Min = append([]byte(nil), v...)
		case fieldNullCount:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			s.NullCount = &v
		case fieldDistinctCount:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			s.DistinctCount = &v
		case fieldMaxValue:
			v, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.MaxValue = append([]byte(nil), v...)
		case fieldMinValue:
			v, err := r.ReadBinary()
			if err != nil {
				return err
			}
			s.MinValue = append([]byte(nil), v...)
		case fieldIsMaxValueExact:
			v, err := compact.ReadBoolField(h)
			if err != nil {
				return err
			}
			s.IsMaxValueExact = &v
		case fieldIsMinValueExact:
			v, err := compact.ReadBoolField(h)
			if err != nil {
				return err
			}
			s.IsMinValueExact = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
}

// KeyValue is a single entry of a file or column chunk's free-form
// key/value metadata map.
type KeyValue struct {
	Key   string
	Value *string
}

func (kv *KeyValue) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeBinary, 1)
	w.WriteString(kv.Key)
	if kv.Value != nil {
		w.WriteFieldHeader(compact.TypeBinary, 2)
		w.WriteString(*kv.Value)
	}
	w.WriteStructEnd()
}

func (kv *KeyValue) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	haveKey := false
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
			kv.Key = v
			haveKey = true
		case 2:
			v, err := r.ReadString()
			if err != nil {
				return err
			}
			kv.Value = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	if !haveKey {
		return errRequired("KeyValue", "key")
	}
	return nil
}

// SortingColumn describes one column a row group's rows are sorted by.
type SortingColumn struct {
	ColumnIdx  int32
	Descending bool
	NullsFirst bool
}

func (s *SortingColumn) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(s.ColumnIdx)
	w.WriteBoolField(2, s.Descending)
	w.WriteBoolField(3, s.NullsFirst)
	w.WriteStructEnd()
}

func (s *SortingColumn) Unmarshal(r *compact.Reader) error {
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
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.ColumnIdx = v
			have[0] = true
		case 2:
			v, err := compact.ReadBoolField(h)
			if err != nil {
				return err
			}
			s.Descending = v
			have[1] = true
		case 3:
			v, err := compact.ReadBoolField(h)
			if err != nil {
				return err
			}
			s.NullsFirst = v
			have[2] = true
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	for i, name := range [...]string{"column_idx", "descending", "nulls_first"} {
		if !have[i] {
			return errRequired("SortingColumn", name)
		}
	}
	return nil
}

// PageEncodingStats records how many pages of a given type used a given
// encoding, for ColumnMetaData.EncodingStats.
type PageEncodingStats struct {
	PageType PageType
	Encoding Encoding
	Count    int32
}

func (s *PageEncodingStats) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(int32(s.PageType))
	w.WriteFieldHeader(compact.TypeI32, 2)
	w.WriteI32(int32(s.Encoding))
	w.WriteFieldHeader(compact.TypeI32, 3)
	w.WriteI32(s.Count)
	w.WriteStructEnd()
}

func (s *PageEncodingStats) Unmarshal(r *compact.Reader) error {
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
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.PageType = PageType(v)
			have[0] = true
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Encoding = Encoding(v)
			have[1] = true
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Count = v
			have[2] = true
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	for i, name := range [...]string{"page_type", "encoding", "count"} {
		if !have[i] {
			return errRequired("PageEncodingStats", name)
		}
	}
	return nil
}

func errRequired(structName, field string) error {
	return fmt.Errorf("format: %s: missing required field %q", structName, field)
}
