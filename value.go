package parquet

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cobaltwing/parquet/encoding/plain"
	"github.com/cobaltwing/parquet/format"
)

// Value wraps one column's worth of a single primitive, tagged with its
// physical type and the definition/repetition levels it carried in the
// page it came from. The zero Value is a non-null BOOLEAN false with both
// levels zero; NullValue builds a null.
//
// Unlike a dynamic interface{}, each physical type has its own typed
// field; only the field matching Kind is meaningful. This keeps hot
// column paths free of boxing (SPEC_FULL.md "Heterogeneous nested
// values").
type Value struct {
	kind   format.Type
	isNull bool

	boolean bool
	int32   int32
	int64   int64
	int96   plain.Int96
	float32 float32
	float64 float64
	bytes   []byte

	definitionLevel int32
	repetitionLevel int32
}

func NullValue(kind format.Type) Value {
	return Value{kind: kind, isNull: true}
}

func BooleanValue(v bool) Value { return Value{kind: format.Boolean, boolean: v} }

func Int32Value(v int32) Value { return Value{kind: format.Int32, int32: v} }

func Int64Value(v int64) Value { return Value{kind: format.Int64, int64: v} }

func Int96Value(v plain.Int96) Value { return Value{kind: format.Int96, int96: v} }

func FloatValue(v float32) Value { return Value{kind: format.Float, float32: v} }

func DoubleValue(v float64) Value { return Value{kind: format.Double, float64: v} }

// ByteArrayValue wraps v without copying it; the caller must not mutate v
// afterward.
func ByteArrayValue(v []byte) Value { return Value{kind: format.ByteArray, bytes: v} }

func FixedLenByteArrayValue(v []byte) Value {
	return Value{kind: format.FixedLenByteArray, bytes: v}
}

func StringValue(s string) Value { return ByteArrayValue([]byte(s)) }

// UUIDValue wraps a UUID as a 16-byte FIXED_LEN_BYTE_ARRAY value, the
// physical representation the UUID logical type annotates.
func UUIDValue(id uuid.UUID) Value {
	b := append([]byte(nil), id[:]...)
	return FixedLenByteArrayValue(b)
}

func (v Value) Kind() format.Type { return v.kind }

func (v Value) IsNull() bool { return v.isNull }

func (v Value) Boolean() bool { return v.boolean }

func (v Value) Int32() int32 { return v.int32 }

func (v Value) Int64() int64 { return v.int64 }

func (v Value) Int96() plain.Int96 { return v.int96 }

func (v Value) Float() float32 { return v.float32 }

func (v Value) Double() float64 { return v.float64 }

// ByteArray returns the raw bytes of a BYTE_ARRAY or FIXED_LEN_BYTE_ARRAY
// value.
func (v Value) ByteArray() []byte { return v.bytes }

// String interprets a BYTE_ARRAY value as UTF-8 text. Callers must only
// use this when the column's logical type is STRING (spec.md §4.C): this
// package does not validate UTF-8 on decode.
func (v Value) String() string { return string(v.bytes) }

// UUID interprets a 16-byte FIXED_LEN_BYTE_ARRAY value as a UUID.
func (v Value) UUID() (uuid.UUID, error) {
	if len(v.bytes) != 16 {
		return uuid.UUID{}, fmt.Errorf("parquet: value of %d bytes is not a valid UUID", len(v.bytes))
	}
	var id uuid.UUID
	copy(id[:], v.bytes)
	return id, nil
}

func (v Value) DefinitionLevel() int32 { return v.definitionLevel }

func (v Value) RepetitionLevel() int32 { return v.repetitionLevel }

// Level returns a copy of v with its definition and repetition levels set.
func (v Value) Level(definitionLevel, repetitionLevel int32) Value {
	v.definitionLevel = definitionLevel
	v.repetitionLevel = repetitionLevel
	return v
}

func (v Value) GoString() string {
	if v.isNull {
		return "null"
	}
	switch v.kind {
	case format.Boolean:
		return fmt.Sprintf("%v", v.boolean)
	case format.Int32:
		return fmt.Sprintf("%d", v.int32)
	case format.Int64:
		return fmt.Sprintf("%d", v.int64)
	case format.Float:
		return fmt.Sprintf("%g", v.float32)
	case format.Double:
		return fmt.Sprintf("%g", v.float64)
	case format.ByteArray, format.FixedLenByteArray:
		return fmt.Sprintf("%q", v.bytes)
	default:
		return fmt.Sprintf("<int96 %x>", v.int96)
	}
}
