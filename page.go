package parquet

import (
	"github.com/cobaltwing/parquet/encoding/plain"
	"github.com/cobaltwing/parquet/encoding/rle"
	"github.com/cobaltwing/parquet/format"
	"github.com/cobaltwing/parquet/format/compact"
)

// AppendPageHeader appends the Thrift-compact encoding of hdr to dst.
func AppendPageHeader(dst []byte, hdr *format.PageHeader) []byte {
	w := compact.NewWriter()
	hdr.Marshal(w)
	return append(dst, w.Bytes()...)
}

// ReadPageHeader decodes a PageHeader from the start of buf and reports how
// many bytes it consumed, so the caller can locate the page payload that
// immediately follows it. buf must contain the full header; it may also
// contain trailing bytes belonging to the payload or later pages, which
// are ignored.
func ReadPageHeader(buf []byte) (hdr *format.PageHeader, headerSize int, err error) {
	r := compact.NewReader(buf)
	before := r.Len()
	hdr = &format.PageHeader{}
	if err := hdr.Unmarshal(r); err != nil {
		return nil, 0, wrapKind(InvalidMetadata, err, "decoding page header")
	}
	return hdr, before - r.Len(), nil
}

// DataPageV1 is a decoded Data Page V1 (spec.md §4.F): the definition and
// repetition level streams alongside the page's non-null values, still in
// on-disk order. Assembling these into a column's nested values is
// reconstruct.go's job; this type only knows how to parse and produce one
// page's flat contents.
type DataPageV1 struct {
	NumValues  int
	RepLevels  []uint32 // empty if maxRepetitionLevel == 0
	DefLevels  []uint32 // empty if maxDefinitionLevel == 0
	NonNulls   []Value  // len == count of slots with DefLevels[i] == maxDefinitionLevel
	maxDefLvl  int
	kind       format.Type
}

// DecodeDataPageV1 parses a decompressed Data Page V1 payload.
//
// kind and typeLength describe the column's physical type; dict is the
// column chunk's dictionary, required when encoding is PlainDictionary or
// RLEDictionary and nil otherwise.
func DecodeDataPageV1(payload []byte, numValues, maxRepLevel, maxDefLevel int, kind format.Type, typeLength int32, encoding format.Encoding, dict *Dictionary) (*DataPageV1, error) {
	page := &DataPageV1{NumValues: numValues, maxDefLvl: maxDefLevel, kind: kind}
	rest := payload

	if maxRepLevel > 0 {
		bitWidth := rle.BitWidthForMaxLevel(maxRepLevel)
		levels, n, err := rle.DecodeLevels(make([]uint32, 0, numValues), rest, bitWidth, numValues)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding repetition levels")
		}
		page.RepLevels = levels
		rest = rest[n:]
	}

	nonNullCount := numValues
	if maxDefLevel > 0 {
		bitWidth := rle.BitWidthForMaxLevel(maxDefLevel)
		levels, n, err := rle.DecodeLevels(make([]uint32, 0, numValues), rest, bitWidth, numValues)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding definition levels")
		}
		page.DefLevels = levels
		rest = rest[n:]

		nonNullCount = 0
		for _, d := range levels {
			if int(d) == maxDefLevel {
				nonNullCount++
			}
		}
	}

	values, err := decodeValueStream(rest, nonNullCount, kind, typeLength, encoding, dict)
	if err != nil {
		return nil, err
	}
	page.NonNulls = values
	return page, nil
}

func decodeValueStream(src []byte, count int, kind format.Type, typeLength int32, encoding format.Encoding, dict *Dictionary) ([]Value, error) {
	switch encoding {
	case format.PlainDictionary, format.RLEDictionary:
		if dict == nil {
			return nil, errKind(Malformed, "dictionary-encoded page has no dictionary")
		}
		indexes, err := rle.DecodeDictionaryIndices(make([]uint32, 0, count), src, count)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding dictionary indices")
		}
		values := make([]Value, count)
		idx32 := make([]int32, count)
		for i, x := range indexes {
			if int(x) >= dict.Len() {
				return nil, errKind(Malformed, "dictionary index %d out of range for dictionary of %d values", x, dict.Len())
			}
			idx32[i] = int32(x)
		}
		dict.Lookup(idx32, values)
		return values, nil

	case format.PlainEncoding:
		return decodePlainValues(src, count, kind, typeLength)

	default:
		return nil, errKind(Unsupported, "data page encoding %s is not implemented", encoding)
	}
}

func decodePlainValues(src []byte, count int, kind format.Type, typeLength int32) ([]Value, error) {
	switch kind {
	case format.Boolean:
		bs, err := plain.DecodeBoolean(make([]bool, 0, count), src, count)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding boolean values")
		}
		out := make([]Value, count)
		for i, b := range bs {
			out[i] = BooleanValue(b)
		}
		return out, nil
	case format.Int32:
		xs, err := plain.DecodeInt32(make([]int32, 0, count), src)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding int32 values")
		}
		out := make([]Value, count)
		for i, x := range xs {
			out[i] = Int32Value(x)
		}
		return out, nil
	case format.Int64:
		xs, err := plain.DecodeInt64(make([]int64, 0, count), src)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding int64 values")
		}
		out := make([]Value, count)
		for i, x := range xs {
			out[i] = Int64Value(x)
		}
		return out, nil
	case format.Int96:
		if len(src) < count*12 {
			return nil, errKind(Malformed, "int96 stream of %d values needs %d bytes, got %d", count, count*12, len(src))
		}
		out := make([]Value, count)
		for i := 0; i < count; i++ {
			var b plain.Int96
			copy(b[:], src[i*12:(i+1)*12])
			out[i] = Int96Value(b)
		}
		return out, nil
	case format.Float:
		xs, err := plain.DecodeFloat(make([]float32, 0, count), src)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding float values")
		}
		out := make([]Value, count)
		for i, x := range xs {
			out[i] = FloatValue(x)
		}
		return out, nil
	case format.Double:
		xs, err := plain.DecodeDouble(make([]float64, 0, count), src)
		if err != nil {
			return nil, wrapKind(Malformed, err, "decoding double values")
		}
		out := make([]Value, count)
		for i, x := range xs {
			out[i] = DoubleValue(x)
		}
		return out, nil
	case format.ByteArray:
		out := make([]Value, count)
		rest := src
		for i := 0; i < count; i++ {
			b, next, err := plain.NextByteArray(rest)
			if err != nil {
				return nil, wrapKind(Malformed, err, "decoding binary value %d/%d", i, count)
			}
			out[i] = ByteArrayValue(append([]byte(nil), b...))
			rest = next
		}
		return out, nil
	case format.FixedLenByteArray:
		size := int(typeLength)
		if len(src) < count*size {
			return nil, errKind(Malformed, "fixed-length binary stream of %d values of size %d needs %d bytes, got %d", count, size, count*size, len(src))
		}
		out := make([]Value, count)
		for i := 0; i < count; i++ {
			v := append([]byte(nil), src[i*size:(i+1)*size]...)
			out[i] = FixedLenByteArrayValue(v)
		}
		return out, nil
	default:
		return nil, errKind(Unsupported, "physical type %s is not implemented", kind)
	}
}

// Values reconstructs the page's full flat slot sequence: one Value per
// logical slot, nulls included, each tagged with the definition and
// repetition level it carried. Required, non-nested columns (maxDefLevel
// == 0) have no def/rep levels at all, so every slot is non-null with
// level 0.
func (p *DataPageV1) Values() []Value {
	out := make([]Value, p.NumValues)
	vi := 0
	for i := 0; i < p.NumValues; i++ {
		def := p.maxDefLvl
		if len(p.DefLevels) > 0 {
			def = int(p.DefLevels[i])
		}
		rep := 0
		if len(p.RepLevels) > 0 {
			rep = int(p.RepLevels[i])
		}
		v := NullValue(p.kind)
		if def == p.maxDefLvl {
			v = p.NonNulls[vi]
			vi++
		}
		out[i] = v.Level(int32(def), int32(rep))
	}
	return out
}

// encodeLevels appends repetition and definition level streams (whichever
// the schema position requires) ahead of the value stream shared by both
// EncodeDataPageV1 and EncodeDataPageV1Dictionary.
func encodeLevels(values []Value, maxRepLevel, maxDefLevel int) ([]byte, error) {
	var payload []byte

	if maxRepLevel > 0 {
		reps := make([]uint32, len(values))
		for i, v := range values {
			reps[i] = uint32(v.RepetitionLevel())
		}
		enc, err := rle.EncodeLevels(nil, reps, rle.BitWidthForMaxLevel(maxRepLevel))
		if err != nil {
			return nil, wrapKind(CodecError, err, "encoding repetition levels")
		}
		payload = append(payload, enc...)
	}

	if maxDefLevel > 0 {
		defs := make([]uint32, len(values))
		for i, v := range values {
			defs[i] = uint32(v.DefinitionLevel())
		}
		enc, err := rle.EncodeLevels(nil, defs, rle.BitWidthForMaxLevel(maxDefLevel))
		if err != nil {
			return nil, wrapKind(CodecError, err, "encoding definition levels")
		}
		payload = append(payload, enc...)
	}

	return payload, nil
}

// EncodeDataPageV1Dictionary serializes values the same way as
// EncodeDataPageV1, but encodes the non-null values as dictionary indices
// (RLE_DICTIONARY physical encoding) against dict, inserting any value not
// already present.
func EncodeDataPageV1Dictionary(values []Value, maxRepLevel, maxDefLevel int, dict *Dictionary) ([]byte, error) {
	payload, err := encodeLevels(values, maxRepLevel, maxDefLevel)
	if err != nil {
		return nil, err
	}

	var indexes []uint32
	for _, v := range values {
		if int(v.DefinitionLevel()) != maxDefLevel {
			continue
		}
		indexes = append(indexes, uint32(dict.Insert(v)))
	}

	bitWidth := rle.BitWidthForDictionarySize(dict.Len())
	enc, err := rle.EncodeDictionaryIndices(nil, indexes, bitWidth)
	if err != nil {
		return nil, wrapKind(CodecError, err, "encoding dictionary indices")
	}
	return append(payload, enc...), nil
}

// EncodeDataPageV1 serializes values (one per logical slot, including
// nulls, each carrying the levels Values produces) into a Data Page V1
// payload using the PLAIN physical encoding.
func EncodeDataPageV1(values []Value, maxRepLevel, maxDefLevel int, kind format.Type) ([]byte, error) {
	payload, err := encodeLevels(values, maxRepLevel, maxDefLevel)
	if err != nil {
		return nil, err
	}

	if kind == format.Boolean {
		var bools []bool
		for _, v := range values {
			if int(v.DefinitionLevel()) == maxDefLevel {
				bools = append(bools, v.Boolean())
			}
		}
		return append(payload, AppendPlainBooleans(nil, bools)...), nil
	}

	for _, v := range values {
		if int(v.DefinitionLevel()) != maxDefLevel {
			continue
		}
		payload = appendPlainValue(payload, v, kind)
	}
	return payload, nil
}

func appendPlainValue(dst []byte, v Value, kind format.Type) []byte {
	switch kind {
	case format.Int32:
		return plain.AppendInt32(dst, v.Int32())
	case format.Int64:
		return plain.AppendInt64(dst, v.Int64())
	case format.Int96:
		return plain.AppendInt96(dst, v.Int96())
	case format.Float:
		return plain.AppendFloat(dst, v.Float())
	case format.Double:
		return plain.AppendDouble(dst, v.Double())
	case format.ByteArray:
		return plain.AppendByteArray(dst, v.ByteArray())
	case format.FixedLenByteArray:
		return plain.AppendFixedLenByteArray(dst, v.ByteArray())
	default:
		return dst
	}
}

// AppendPlainBooleans bit-packs count booleans (LSB-first) onto dst,
// matching the PLAIN boolean encoding's expectations for a whole run
// encoded in one call.
func AppendPlainBooleans(dst []byte, values []bool) []byte {
	for i, v := range values {
		dst = plain.AppendBoolean(dst, i, v)
	}
	return dst
}
