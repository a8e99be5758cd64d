package parquet

import (
	"github.com/cobaltwing/parquet/encoding/plain"
	"github.com/cobaltwing/parquet/format"
)

// shred.go is the write-side mirror of reconstruct.go: it walks a nested
// Go value against the schema tree and emits one (value, definition level,
// repetition level) triple per leaf per logical slot, the exact inverse of
// what Assembler.Next reads back (SPEC_FULL.md "Page assembly"). A row
// written with shredder.writeRow and read back through Assembler.Next
// round-trips byte-for-byte, including the LIST/MAP wrapper levels that
// reconstruct.go deliberately leaves unsugared; see DESIGN.md.
type shredder struct {
	columns map[*Node]*columnBuffer
}

// writeRow shreds one top-level row into the per-leaf column buffers.
func (s *shredder) writeRow(schema *Schema, row map[string]any) error {
	return s.writeGroup(schema.Root, row, 0)
}

func (s *shredder) writeGroup(g *Node, row map[string]any, parentRep int) error {
	for _, c := range g.Children {
		if err := s.writeField(c, row[c.Name], parentRep); err != nil {
			return err
		}
	}
	return nil
}

func (s *shredder) writeField(n *Node, v any, parentRep int) error {
	if n.IsLeaf() {
		return s.writeLeaf(n, v, parentRep)
	}

	if n.IsRepeated() {
		elems, _ := v.([]any)
		if len(elems) == 0 {
			return s.emitGroupAbsence(n, n.DefLevel-1, parentRep)
		}
		for i, e := range elems {
			rep := parentRep
			if i > 0 {
				rep = n.RepLevel
			}
			m, _ := e.(map[string]any)
			if m == nil {
				m = map[string]any{}
			}
			if err := s.writeGroup(n, m, rep); err != nil {
				return err
			}
		}
		return nil
	}

	if v == nil {
		if n.IsRequired() {
			return errKind(Malformed, "required field %q is missing", n.Name)
		}
		return s.emitGroupAbsence(n, n.DefLevel-1, parentRep)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return errKind(Malformed, "field %q expects a nested record, got %T", n.Name, v)
	}
	return s.writeGroup(n, m, parentRep)
}

func (s *shredder) writeLeaf(n *Node, v any, parentRep int) error {
	kind := *n.Type

	if n.IsRepeated() {
		elems, _ := v.([]any)
		if len(elems) == 0 {
			return s.emit(n, NullValue(kind).Level(int32(n.DefLevel-1), int32(parentRep)))
		}
		for i, e := range elems {
			rep := parentRep
			if i > 0 {
				rep = n.RepLevel
			}
			if e == nil {
				if err := s.emit(n, NullValue(kind).Level(int32(n.DefLevel-1), int32(rep))); err != nil {
					return err
				}
				continue
			}
			val, err := valueFromAny(kind, e)
			if err != nil {
				return wrapKind(Malformed, err, "field %q", n.Name)
			}
			if err := s.emit(n, val.Level(int32(n.DefLevel), int32(rep))); err != nil {
				return err
			}
		}
		return nil
	}

	if v == nil {
		if n.IsRequired() {
			return errKind(Malformed, "required field %q is missing", n.Name)
		}
		return s.emit(n, NullValue(kind).Level(int32(n.DefLevel-1), int32(parentRep)))
	}
	val, err := valueFromAny(kind, v)
	if err != nil {
		return wrapKind(Malformed, err, "field %q", n.Name)
	}
	return s.emit(n, val.Level(int32(n.DefLevel), int32(parentRep)))
}

// emitGroupAbsence records one slot, at the given definition/repetition
// level, for every leaf descending from n, matching the single slot an
// absent optional group or empty-but-present repeated group occupies in
// every leaf's value stream beneath it.
func (s *shredder) emitGroupAbsence(n *Node, defLevel, repLevel int) error {
	for leaf, buf := range s.columns {
		if !isDescendant(n, leaf) {
			continue
		}
		buf.append(NullValue(*leaf.Type).Level(int32(defLevel), int32(repLevel)))
	}
	return nil
}

func (s *shredder) emit(leaf *Node, v Value) error {
	buf, ok := s.columns[leaf]
	if !ok {
		return errKind(Malformed, "no column buffer for leaf %q", leaf.Name)
	}
	buf.append(v)
	return nil
}

// valueFromAny converts a native Go scalar (as produced by leafScalar on
// read) into a Value of the given physical kind. A Value of matching kind
// is also accepted unchanged, so callers can round-trip assembled records
// without re-deriving the native type.
func valueFromAny(kind format.Type, v any) (Value, error) {
	if val, ok := v.(Value); ok {
		return val, nil
	}
	switch kind {
	case format.Boolean:
		b, ok := v.(bool)
		if !ok {
			return Value{}, errKind(Malformed, "expected bool, got %T", v)
		}
		return BooleanValue(b), nil
	case format.Int32:
		x, ok := v.(int32)
		if !ok {
			return Value{}, errKind(Malformed, "expected int32, got %T", v)
		}
		return Int32Value(x), nil
	case format.Int64:
		x, ok := v.(int64)
		if !ok {
			return Value{}, errKind(Malformed, "expected int64, got %T", v)
		}
		return Int64Value(x), nil
	case format.Int96:
		x, ok := v.(plain.Int96)
		if !ok {
			return Value{}, errKind(Malformed, "expected plain.Int96, got %T", v)
		}
		return Int96Value(x), nil
	case format.Float:
		x, ok := v.(float32)
		if !ok {
			return Value{}, errKind(Malformed, "expected float32, got %T", v)
		}
		return FloatValue(x), nil
	case format.Double:
		x, ok := v.(float64)
		if !ok {
			return Value{}, errKind(Malformed, "expected float64, got %T", v)
		}
		return DoubleValue(x), nil
	case format.ByteArray:
		switch b := v.(type) {
		case []byte:
			return ByteArrayValue(b), nil
		case string:
			return StringValue(b), nil
		default:
			return Value{}, errKind(Malformed, "expected []byte or string, got %T", v)
		}
	case format.FixedLenByteArray:
		b, ok := v.([]byte)
		if !ok {
			return Value{}, errKind(Malformed, "expected []byte, got %T", v)
		}
		return FixedLenByteArrayValue(b), nil
	default:
		return Value{}, errKind(Unsupported, "physical type %s is not implemented", kind)
	}
}
