package format

import "github.com/cobaltwing/parquet/format/compact"

// TimeUnit selects the granularity of a TIME or TIMESTAMP logical type.
type TimeUnit int

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

func (u TimeUnit) marshal(w *compact.Writer) {
	w.WriteStructBegin()
	switch u {
	case Millis:
		w.WriteFieldHeader(compact.TypeStruct, 1)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case Micros:
		w.WriteFieldHeader(compact.TypeStruct, 2)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case Nanos:
		w.WriteFieldHeader(compact.TypeStruct, 3)
		w.WriteStructBegin()
		w.WriteStructEnd()
	}
	w.WriteStructEnd()
}

func unmarshalTimeUnit(r *compact.Reader) (TimeUnit, error) {
	var u TimeUnit
	set := false
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return 0, err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			if err := skipEmptyStruct(r); err != nil {
				return 0, err
			}
			u, set = Millis, true
		case 2:
			if err := skipEmptyStruct(r); err != nil {
				return 0, err
			}
			u, set = Micros, true
		case 3:
			if err := skipEmptyStruct(r); err != nil {
				return 0, err
			}
			u, set = Nanos, true
		default:
			if err := r.Skip(h.Type); err != nil {
				return 0, err
			}
		}
	}
	if !set {
		return 0, errRequired("TimeUnit", "one of millis/micros/nanos")
	}
	return u, nil
}

func skipEmptyStruct(r *compact.Reader) error {
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
		if err := r.Skip(h.Type); err != nil {
			return err
		}
	}
}

// DecimalType carries the scale and precision of a DECIMAL logical type.
type DecimalType struct {
	Scale     int32
	Precision int32
}

// TimeType carries the UTC-adjustment flag and unit of a TIME logical type.
type TimeType struct {
	IsAdjustedToUTC bool
	Unit            TimeUnit
}

// TimestampType carries the UTC-adjustment flag and unit of a TIMESTAMP
// logical type.
type TimestampType struct {
	IsAdjustedToUTC bool
	Unit            TimeUnit
}

// IntType carries the bit width and signedness of an INTEGER logical type.
type IntType struct {
	BitWidth int8
	IsSigned bool
}

// logicalTypeTag identifies which arm of the LogicalType union is set.
type logicalTypeTag int

const (
	logicalNone logicalTypeTag = iota
	logicalString
	logicalMap
	logicalList
	logicalEnum
	logicalDecimal
	logicalDate
	logicalTime
	logicalTimestamp
	logicalInteger
	logicalUnknown
	logicalJSON
	logicalBSON
	logicalUUID
	logicalFloat16
)

// LogicalType is the structured logical-type annotation union. Exactly one
// of the typed fields is meaningful, selected by the tag returned from
// Kind(); the various constructors below are the supported ways to build
// one.
type LogicalType struct {
	tag     logicalTypeTag
	decimal DecimalType
	time    TimeType
	ts      TimestampType
	integer IntType
}

func StringLogicalType() LogicalType    { return LogicalType{tag: logicalString} }
func MapLogicalType() LogicalType       { return LogicalType{tag: logicalMap} }
func ListLogicalType() LogicalType      { return LogicalType{tag: logicalList} }
func EnumLogicalType() LogicalType      { return LogicalType{tag: logicalEnum} }
func DateLogicalType() LogicalType      { return LogicalType{tag: logicalDate} }
func UnknownLogicalType() LogicalType   { return LogicalType{tag: logicalUnknown} }
func JSONLogicalType() LogicalType      { return LogicalType{tag: logicalJSON} }
func BSONLogicalType() LogicalType      { return LogicalType{tag: logicalBSON} }
func UUIDLogicalType() LogicalType      { return LogicalType{tag: logicalUUID} }
func Float16LogicalType() LogicalType   { return LogicalType{tag: logicalFloat16} }

func DecimalLogicalType(scale, precision int32) LogicalType {
	return LogicalType{tag: logicalDecimal, decimal: DecimalType{Scale: scale, Precision: precision}}
}

func TimeLogicalType(isAdjustedToUTC bool, unit TimeUnit) LogicalType {
	return LogicalType{tag: logicalTime, time: TimeType{IsAdjustedToUTC: isAdjustedToUTC, Unit: unit}}
}

func TimestampLogicalType(isAdjustedToUTC bool, unit TimeUnit) LogicalType {
	return LogicalType{tag: logicalTimestamp, ts: TimestampType{IsAdjustedToUTC: isAdjustedToUTC, Unit: unit}}
}

func IntegerLogicalType(bitWidth int8, isSigned bool) LogicalType {
	return LogicalType{tag: logicalInteger, integer: IntType{BitWidth: bitWidth, IsSigned: isSigned}}
}

func (t LogicalType) IsString() bool    { return t.tag == logicalString }
func (t LogicalType) IsMap() bool       { return t.tag == logicalMap }
func (t LogicalType) IsList() bool      { return t.tag == logicalList }
func (t LogicalType) IsEnum() bool      { return t.tag == logicalEnum }
func (t LogicalType) IsDate() bool      { return t.tag == logicalDate }
func (t LogicalType) IsUnknown() bool   { return t.tag == logicalUnknown }
func (t LogicalType) IsJSON() bool      { return t.tag == logicalJSON }
func (t LogicalType) IsBSON() bool      { return t.tag == logicalBSON }
func (t LogicalType) IsUUID() bool      { return t.tag == logicalUUID }
func (t LogicalType) IsFloat16() bool   { return t.tag == logicalFloat16 }
func (t LogicalType) IsZero() bool      { return t.tag == logicalNone }

func (t LogicalType) Decimal() (DecimalType, bool) {
	return t.decimal, t.tag == logicalDecimal
}

func (t LogicalType) Time() (TimeType, bool) {
	return t.time, t.tag == logicalTime
}

func (t LogicalType) Timestamp() (TimestampType, bool) {
	return t.ts, t.tag == logicalTimestamp
}

func (t LogicalType) Integer() (IntType, bool) {
	return t.integer, t.tag == logicalInteger
}

func (t *LogicalType) marshal(w *compact.Writer) {
	w.WriteStructBegin()
	switch t.tag {
	case logicalString:
		w.WriteFieldHeader(compact.TypeStruct, 1)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalMap:
		w.WriteFieldHeader(compact.TypeStruct, 2)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalList:
		w.WriteFieldHeader(compact.TypeStruct, 3)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalEnum:
		w.WriteFieldHeader(compact.TypeStruct, 4)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalDecimal:
		w.WriteFieldHeader(compact.TypeStruct, 5)
		w.WriteStructBegin()
		w.WriteFieldHeader(compact.TypeI32, 1)
		w.WriteI32(t.decimal.Scale)
		w.WriteFieldHeader(compact.TypeI32, 2)
		w.WriteI32(t.decimal.Precision)
		w.WriteStructEnd()
	case logicalDate:
		w.WriteFieldHeader(compact.TypeStruct, 6)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalTime:
		w.WriteFieldHeader(compact.TypeStruct, 7)
		w.WriteStructBegin()
		w.WriteBoolField(1, t.time.IsAdjustedToUTC)
		w.WriteFieldHeader(compact.TypeStruct, 2)
		t.time.Unit.marshal(w)
		w.WriteStructEnd()
	case logicalTimestamp:
		w.WriteFieldHeader(compact.TypeStruct, 8)
		w.WriteStructBegin()
		w.WriteBoolField(1, t.ts.IsAdjustedToUTC)
		w.WriteFieldHeader(compact.TypeStruct, 2)
		t.ts.Unit.marshal(w)
		w.WriteStructEnd()
	case logicalInteger:
		w.WriteFieldHeader(compact.TypeStruct, 10)
		w.WriteStructBegin()
		w.WriteFieldHeader(compact.TypeByte, 1)
		w.WriteByte(byte(t.integer.BitWidth))
		w.WriteBoolField(2, t.integer.IsSigned)
		w.WriteStructEnd()
	case logicalUnknown:
		w.WriteFieldHeader(compact.TypeStruct, 11)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalJSON:
		w.WriteFieldHeader(compact.TypeStruct, 12)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalBSON:
		w.WriteFieldHeader(compact.TypeStruct, 13)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalUUID:
		w.WriteFieldHeader(compact.TypeStruct, 14)
		w.WriteStructBegin()
		w.WriteStructEnd()
	case logicalFloat16:
		w.WriteFieldHeader(compact.TypeStruct, 15)
		w.WriteStructBegin()
		w.WriteStructEnd()
	}
	w.WriteStructEnd()
}

func unmarshalLogicalType(r *compact.Reader) (LogicalType, error) {
	var out LogicalType
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return out, err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalString}
		case 2:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalMap}
		case 3:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalList}
		case 4:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalEnum}
		case 5:
			d, err := unmarshalDecimal(r)
			if err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalDecimal, decimal: d}
		case 6:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalDate}
		case 7:
			tt, err := unmarshalTimeFields(r)
			if err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalTime, time: tt}
		case 8:
			tt, err := unmarshalTimeFields(r)
			if err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalTimestamp, ts: TimestampType(tt)}
		case 10:
			it, err := unmarshalInt(r)
			if err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalInteger, integer: it}
		case 11:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalUnknown}
		case 12:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalJSON}
		case 13:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalBSON}
		case 14:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalUUID}
		case 15:
			if err := skipEmptyStruct(r); err != nil {
				return out, err
			}
			out = LogicalType{tag: logicalFloat16}
		default:
			if err := r.Skip(h.Type); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

func unmarshalDecimal(r *compact.Reader) (DecimalType, error) {
	var d DecimalType
	var have [2]bool
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return d, err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return d, err
			}
			d.Scale = v
			have[0] = true
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return d, err
			}
			d.Precision = v
			have[1] = true
		default:
			if err := r.Skip(h.Type); err != nil {
				return d, err
			}
		}
	}
	if !have[0] || !have[1] {
		return d, errRequired("DecimalType", "scale/precision")
	}
	return d, nil
}

func unmarshalTimeFields(r *compact.Reader) (TimeType, error) {
	var t TimeType
	var haveUTC, haveUnit bool
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return t, err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			v, err := compact.ReadBoolField(h)
			if err != nil {
				return t, err
			}
			t.IsAdjustedToUTC = v
			haveUTC = true
		case 2:
			u, err := unmarshalTimeUnit(r)
			if err != nil {
				return t, err
			}
			t.Unit = u
			haveUnit = true
		default:
			if err := r.Skip(h.Type); err != nil {
				return t, err
			}
		}
	}
	if !haveUTC || !haveUnit {
		return t, errRequired("TimeType/TimestampType", "isAdjustedToUTC/unit")
	}
	return t, nil
}

func unmarshalInt(r *compact.Reader) (IntType, error) {
	var it IntType
	var haveWidth, haveSigned bool
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		h, err := r.ReadFieldHeader()
		if err != nil {
			return it, err
		}
		if h.Type == compact.TypeStop {
			break
		}
		switch h.ID {
		case 1:
			v, err := r.ReadByte()
			if err != nil {
				return it, err
			}
			it.BitWidth = int8(v)
			haveWidth = true
		case 2:
			v, err := compact.ReadBoolField(h)
			if err != nil {
				return it, err
			}
			it.IsSigned = v
			haveSigned = true
		default:
			if err := r.Skip(h.Type); err != nil {
				return it, err
			}
		}
	}
	if !haveWidth || !haveSigned {
		return it, errRequired("IntType", "bitWidth/isSigned")
	}
	return it, nil
}
