package parquet

import (
	"bytes"

	"github.com/cobaltwing/parquet/encoding/plain"
	"github.com/cobaltwing/parquet/format"
)

// Dictionary holds the distinct values of one column chunk's dictionary
// page (spec.md §4.F), in first-insertion order. Index i is the value a
// data page's RLE_DICTIONARY index stream of value i refers to.
//
// The teacher keeps one Dictionary implementation per physical Go type
// (byteArrayDictionary, fixedLenByteArrayDictionary, ...), each closing
// over a concrete Value-producing slice. Since this package's Value is
// already a closed tagged union rather than a family of types, a single
// Dictionary serves every physical kind; see DESIGN.md.
type Dictionary struct {
	kind       format.Type
	typeLength int32
	values     []Value
	index      map[any]int32
}

// NewDictionary creates an empty dictionary for columns of the given
// physical kind. typeLength is only meaningful for FixedLenByteArray.
func NewDictionary(kind format.Type, typeLength int32) *Dictionary {
	return &Dictionary{kind: kind, typeLength: typeLength}
}

func (d *Dictionary) Type() format.Type { return d.kind }

func (d *Dictionary) Len() int { return len(d.values) }

// Index returns the dictionary value recorded at i. It panics if i is out
// of bounds, matching the teacher's contract.
func (d *Dictionary) Index(i int) Value { return d.values[i] }

// Insert records v if it is not already present, returning the index at
// which it is now stored.
func (d *Dictionary) Insert(v Value) int32 {
	key := dictKey(v)
	if i, ok := d.index[key]; ok {
		return i
	}
	i := int32(len(d.values))
	d.values = append(d.values, v)
	if d.index == nil {
		d.index = make(map[any]int32, 8)
	}
	d.index[key] = i
	return i
}

// Lookup resolves a page's dictionary indexes into values, writing into
// dst. It panics if len(dst) < len(indexes) or an index is out of range,
// matching the teacher's contract.
func (d *Dictionary) Lookup(indexes []int32, dst []Value) {
	for i, j := range indexes {
		dst[i] = d.values[j]
	}
}

// Bounds returns the min and max among the values referenced by indexes.
func (d *Dictionary) Bounds(indexes []int32) (min, max Value) {
	if len(indexes) == 0 {
		return min, max
	}
	min = d.values[indexes[0]]
	max = min
	for _, i := range indexes[1:] {
		v := d.values[i]
		if compareValues(v, min) < 0 {
			min = v
		} else if compareValues(v, max) > 0 {
			max = v
		}
	}
	return min, max
}

func (d *Dictionary) Reset() {
	d.values = d.values[:0]
	d.index = nil
}

// Encode appends the PLAIN-encoded dictionary page payload to dst
// (spec.md §4.F: dictionary pages are always PLAIN-encoded, regardless of
// the data page encoding).
func (d *Dictionary) Encode(dst []byte) ([]byte, error) {
	switch d.kind {
	case format.Boolean:
		// BOOLEAN columns never use dictionary encoding in practice (there
		// are at most two distinct values), but the format does not forbid
		// it, so support it for completeness.
		for i, v := range d.values {
			dst = plain.AppendBoolean(dst, i, v.Boolean())
		}
		return dst, nil
	case format.Int32:
		for _, v := range d.values {
			dst = plain.AppendInt32(dst, v.Int32())
		}
		return dst, nil
	case format.Int64:
		for _, v := range d.values {
			dst = plain.AppendInt64(dst, v.Int64())
		}
		return dst, nil
	case format.Int96:
		for _, v := range d.values {
			i96 := v.Int96()
			dst = plain.AppendInt96(dst, i96)
		}
		return dst, nil
	case format.Float:
		for _, v := range d.values {
			dst = plain.AppendFloat(dst, v.Float())
		}
		return dst, nil
	case format.Double:
		for _, v := range d.values {
			dst = plain.AppendDouble(dst, v.Double())
		}
		return dst, nil
	case format.ByteArray:
		for _, v := range d.values {
			dst = plain.AppendByteArray(dst, v.ByteArray())
		}
		return dst, nil
	case format.FixedLenByteArray:
		for _, v := range d.values {
			dst = plain.AppendFixedLenByteArray(dst, v.ByteArray())
		}
		return dst, nil
	default:
		return nil, errKind(Unsupported, "cannot encode dictionary of kind %s", d.kind)
	}
}

// Decode replaces d's contents with the values read from a PLAIN-encoded
// dictionary page payload containing numValues entries.
func (d *Dictionary) Decode(src []byte, numValues int) error {
	d.Reset()
	switch d.kind {
	case format.Boolean:
		out, err := plain.DecodeBoolean(make([]bool, 0, numValues), src, numValues)
		if err != nil {
			return wrapKind(Malformed, err, "decoding boolean dictionary")
		}
		for _, x := range out {
			d.values = append(d.values, BooleanValue(x))
		}
	case format.Int32:
		out, err := plain.DecodeInt32(make([]int32, 0, numValues), src)
		if err != nil {
			return wrapKind(Malformed, err, "decoding int32 dictionary")
		}
		for _, x := range out {
			d.values = append(d.values, Int32Value(x))
		}
	case format.Int64:
		out, err := plain.DecodeInt64(make([]int64, 0, numValues), src)
		if err != nil {
			return wrapKind(Malformed, err, "decoding int64 dictionary")
		}
		for _, x := range out {
			d.values = append(d.values, Int64Value(x))
		}
	case format.Int96:
		if len(src) != numValues*12 {
			return errKind(Malformed, "int96 dictionary of %d values needs %d bytes, got %d", numValues, numValues*12, len(src))
		}
		for i := 0; i < numValues; i++ {
			var b plain.Int96
			copy(b[:], src[i*12:(i+1)*12])
			d.values = append(d.values, Int96Value(b))
		}
	case format.Float:
		out, err := plain.DecodeFloat(make([]float32, 0, numValues), src)
		if err != nil {
			return wrapKind(Malformed, err, "decoding float dictionary")
		}
		for _, x := range out {
			d.values = append(d.values, FloatValue(x))
		}
	case format.Double:
		out, err := plain.DecodeDouble(make([]float64, 0, numValues), src)
		if err != nil {
			return wrapKind(Malformed, err, "decoding double dictionary")
		}
		for _, x := range out {
			d.values = append(d.values, DoubleValue(x))
		}
	case format.ByteArray:
		rest := src
		for i := 0; i < numValues; i++ {
			b, next, err := plain.NextByteArray(rest)
			if err != nil {
				return wrapKind(Malformed, err, "decoding binary dictionary entry %d/%d", i, numValues)
			}
			d.values = append(d.values, ByteArrayValue(append([]byte(nil), b...)))
			rest = next
		}
	case format.FixedLenByteArray:
		size := int(d.typeLength)
		if size <= 0 {
			return errKind(Malformed, "fixed-length binary dictionary missing type length")
		}
		if len(src) != numValues*size {
			return errKind(Malformed, "fixed-length binary dictionary of %d values of size %d needs %d bytes, got %d", numValues, size, numValues*size, len(src))
		}
		for i := 0; i < numValues; i++ {
			v := append([]byte(nil), src[i*size:(i+1)*size]...)
			d.values = append(d.values, FixedLenByteArrayValue(v))
		}
	default:
		return errKind(Unsupported, "cannot decode dictionary of kind %s", d.kind)
	}
	// Rebuild the lookup index so further Insert calls dedupe against the
	// values just loaded.
	d.index = make(map[any]int32, len(d.values))
	for i, v := range d.values {
		d.index[dictKey(v)] = int32(i)
	}
	return nil
}

func dictKey(v Value) any {
	switch v.Kind() {
	case format.Boolean:
		return v.Boolean()
	case format.Int32:
		return v.Int32()
	case format.Int64:
		return v.Int64()
	case format.Int96:
		return v.Int96()
	case format.Float:
		return v.Float()
	case format.Double:
		return v.Double()
	default:
		return string(v.ByteArray())
	}
}

func compareValues(a, b Value) int {
	switch a.Kind() {
	case format.Int32:
		switch {
		case a.Int32() < b.Int32():
			return -1
		case a.Int32() > b.Int32():
			return 1
		default:
			return 0
		}
	case format.Int64:
		switch {
		case a.Int64() < b.Int64():
			return -1
		case a.Int64() > b.Int64():
			return 1
		default:
			return 0
		}
	case format.Float:
		switch {
		case a.Float() < b.Float():
			return -1
		case a.Float() > b.Float():
			return 1
		default:
			return 0
		}
	case format.Double:
		switch {
		case a.Double() < b.Double():
			return -1
		case a.Double() > b.Double():
			return 1
		default:
			return 0
		}
	case format.ByteArray, format.FixedLenByteArray:
		return bytes.Compare(a.ByteArray(), b.ByteArray())
	default:
		// BOOLEAN and INT96 have no meaningful ordering in this
		// implementation (spec.md §9 treats INT96 as opaque); Bounds on
		// dictionaries of these kinds returns an arbitrary but stable pair.
		ab, bb := a.Int96(), b.Int96()
		return bytes.Compare(ab[:], bb[:])
	}
}
