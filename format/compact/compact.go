// Package compact implements the Thrift Compact Binary Protocol, to the
// extent required to read and write the Parquet file footer and page
// headers. It is a hand-rolled implementation of the wire format, not a
// general-purpose Thrift runtime: it knows the field header framing, the
// zigzag varint integer encoding, and the list/set/map headers, but has no
// notion of Thrift IDL, services, or exceptions.
//
// https://github.com/apache/thrift/blob/master/doc/specs/thrift-compact-protocol.md
package compact

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Type codes used by the compact protocol's field headers and collection
// element types.
const (
	TypeStop   = 0x0
	TypeTrue   = 0x1
	TypeFalse  = 0x2
	TypeByte   = 0x3
	TypeI16    = 0x4
	TypeI32    = 0x5
	TypeI64    = 0x6
	TypeDouble = 0x7
	TypeBinary = 0x8
	TypeList   = 0x9
	TypeSet    = 0xA
	TypeMap    = 0xB
	TypeStruct = 0xC
)

const maxVarintBytes = 10 // 10*7 = 70 bits, enough to reject any 64-bit overflow

// Writer serializes values using the Thrift Compact Binary Protocol. Structs
// track the id of the previously written field so that field headers can use
// the short delta form; callers open a struct with WriteStructBegin and close
// it with WriteStructEnd.
type Writer struct {
	buf    []byte
	lastID []int16
}

// NewWriter returns a Writer appending to an internal buffer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the serialized bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Reset clears the writer so it can be reused.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.lastID = w.lastID[:0]
}

// WriteStructBegin starts a new struct scope, pushing a fresh "last field id"
// counter used to compute field header deltas.
func (w *Writer) WriteStructBegin() { w.lastID = append(w.lastID, 0) }

// WriteStructEnd closes the struct scope opened by WriteStructBegin and
// writes the terminating field-stop byte (id 0).
func (w *Writer) WriteStructEnd() {
	w.buf = append(w.buf, TypeStop)
	w.lastID = w.lastID[:len(w.lastID)-1]
}

// WriteFieldHeader writes the header for a field of the given compact type
// and id. Ids must be written in ascending order within a struct, as
// required by spec.md §4.D ("writers must emit fields in ascending id
// order").
func (w *Writer) WriteFieldHeader(typ byte, id int16) {
	top := len(w.lastID) - 1
	last := w.lastID[top]
	delta := id - last
	if delta > 0 && delta <= 15 {
		w.buf = append(w.buf, byte(delta)<<4|typ)
	} else {
		w.buf = append(w.buf, typ)
		w.writeZigzag16(id)
	}
	w.lastID[top] = id
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteBoolField writes a boolean field, folding its value into the field
// header's type code (TypeTrue/TypeFalse) as the compact protocol requires.
func (w *Writer) WriteBoolField(id int16, v bool) {
	typ := byte(TypeFalse)
	if v {
		typ = TypeTrue
	}
	w.WriteFieldHeader(typ, id)
}

func (w *Writer) WriteByte(v byte) { w.buf = append(w.buf, v) }

func (w *Writer) WriteI16(v int16) { w.writeZigzag64(int64(v)) }

func (w *Writer) WriteI32(v int32) { w.writeZigzag64(int64(v)) }

func (w *Writer) WriteI64(v int64) { w.writeZigzag64(v) }

func (w *Writer) WriteDouble(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteBinary(v []byte) {
	w.writeUvarint(uint64(len(v)))
	w.buf = append(w.buf, v...)
}

func (w *Writer) WriteString(v string) {
	w.writeUvarint(uint64(len(v)))
	w.buf = append(w.buf, v...)
}

// WriteListHeader writes a list or set header for count elements of the
// given element type.
func (w *Writer) WriteListHeader(elemType byte, count int) {
	if count < 15 {
		w.buf = append(w.buf, byte(count)<<4|elemType)
	} else {
		w.buf = append(w.buf, 0xF0|elemType)
		w.writeUvarint(uint64(count))
	}
}

// WriteMapHeader writes a map header for count entries of the given key and
// value types. When count is zero no type byte follows, matching the spec.
func (w *Writer) WriteMapHeader(keyType, valType byte, count int) {
	w.writeUvarint(uint64(count))
	if count > 0 {
		w.buf = append(w.buf, keyType<<4|valType)
	}
}

func (w *Writer) writeZigzag16(v int16) {
	w.writeZigzag64(int64(v))
}

func (w *Writer) writeZigzag64(v int64) {
	u := (uint64(v) << 1) ^ uint64(v>>63)
	w.writeUvarint(u)
}

func (w *Writer) writeUvarint(u uint64) {
	var b [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(b[:], u)
	w.buf = append(w.buf, b[:n]...)
}

// Reader deserializes values from a byte slice using the Thrift Compact
// Binary Protocol. It never allocates more than the values it is asked to
// produce, and every method returns an error instead of panicking on
// malformed input.
type Reader struct {
	buf    []byte
	pos    int
	lastID []int16
}

// NewReader returns a Reader over buf. The slice is referenced, not copied;
// the caller must not mutate it while the Reader is in use.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Len reports the number of unread bytes remaining in the buffer.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

func (r *Reader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, wrapTruncated(io.ErrUnexpectedEOF)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadStructBegin opens a new struct scope for field-header delta tracking.
func (r *Reader) ReadStructBegin() { r.lastID = append(r.lastID, 0) }

// ReadStructEnd closes the struct scope opened by ReadStructBegin. It does
// not consume bytes; the field-stop byte is consumed by ReadFieldHeader.
func (r *Reader) ReadStructEnd() { r.lastID = r.lastID[:len(r.lastID)-1] }

// FieldHeader describes a decoded field header: Type is the compact type
// code (TypeStop when the struct has ended) and ID is the field id.
type FieldHeader struct {
	Type byte
	ID   int16
}

// ReadFieldHeader reads the next field header in the current struct scope.
// A Type of TypeStop indicates the end of the struct.
func (r *Reader) ReadFieldHeader() (FieldHeader, error) {
	b, err := r.readByte()
	if err != nil {
		return FieldHeader{}, err
	}
	if b == TypeStop {
		return FieldHeader{Type: TypeStop}, nil
	}

	top := len(r.lastID) - 1
	typ := b & 0x0F
	delta := int16(b>>4) & 0x0F

	var id int16
	if delta == 0 {
		v, err := r.readZigzag64()
		if err != nil {
			return FieldHeader{}, err
		}
		id = int16(v)
	} else {
		id = r.lastID[top] + delta
	}
	r.lastID[top] = id
	return FieldHeader{Type: typ, ID: id}, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadBoolField interprets the boolean value folded into a field header's
// type code, as the compact protocol requires for struct members.
func ReadBoolField(h FieldHeader) (bool, error) {
	switch h.Type {
	case TypeTrue:
		return true, nil
	case TypeFalse:
		return false, nil
	default:
		return false, errKind("boolean field header has non-boolean type code %#x", h.Type)
	}
}

func (r *Reader) ReadByte() (byte, error) { return r.readByte() }

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.readZigzag64()
	return int16(v), err
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.readZigzag64()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	return r.readZigzag64()
}

func (r *Reader) ReadDouble() (float64, error) {
	if r.Len() < 8 {
		return 0, wrapTruncated(io.ErrUnexpectedEOF)
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadBinary() ([]byte, error) {
	n, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	if n > math.MaxInt32 {
		return nil, errOverflow("binary length %d exceeds int32", n)
	}
	if uint64(r.Len()) < n {
		return nil, wrapTruncated(io.ErrUnexpectedEOF)
	}
	v := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return v, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBinary()
	return string(b), err
}

// ListHeader describes a decoded list or set header.
type ListHeader struct {
	ElemType byte
	Size     int
}

func (r *Reader) ReadListHeader() (ListHeader, error) {
	b, err := r.readByte()
	if err != nil {
		return ListHeader{}, err
	}
	size := int(b >> 4)
	elemType := b & 0x0F
	if size == 0x0F {
		n, err := r.readUvarint()
		if err != nil {
			return ListHeader{}, err
		}
		if n > math.MaxInt32 {
			return ListHeader{}, errOverflow("list size %d exceeds int32", n)
		}
		size = int(n)
	}
	return ListHeader{ElemType: elemType, Size: size}, nil
}

// MapHeader describes a decoded map header.
type MapHeader struct {
	KeyType, ValType byte
	Size             int
}

func (r *Reader) ReadMapHeader() (MapHeader, error) {
	n, err := r.readUvarint()
	if err != nil {
		return MapHeader{}, err
	}
	if n > math.MaxInt32 {
		return MapHeader{}, errOverflow("map size %d exceeds int32", n)
	}
	h := MapHeader{Size: int(n)}
	if n > 0 {
		b, err := r.readByte()
		if err != nil {
			return MapHeader{}, err
		}
		h.KeyType = b >> 4
		h.ValType = b & 0x0F
	}
	return h, nil
}

func (r *Reader) readUvarint() (uint64, error) {
	var u uint64
	for i := 0; ; i++ {
		if i == maxVarintBytes {
			return 0, errOverflow("varint longer than %d bytes", maxVarintBytes)
		}
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		u |= uint64(b&0x7F) << (7 * uint(i))
		if b&0x80 == 0 {
			return u, nil
		}
	}
}

func (r *Reader) readZigzag64() (int64, error) {
	u, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// Skip discards the payload of a value of the given compact type, used by
// struct decoders to tolerate unknown field ids (spec.md §4.D).
func (r *Reader) Skip(typ byte) error {
	switch typ {
	case TypeTrue, TypeFalse:
		return nil
	case TypeByte:
		_, err := r.readByte()
		return err
	case TypeI16, TypeI32, TypeI64:
		_, err := r.readZigzag64()
		return err
	case TypeDouble:
		_, err := r.ReadDouble()
		return err
	case TypeBinary:
		_, err := r.ReadBinary()
		return err
	case TypeList, TypeSet:
		h, err := r.ReadListHeader()
		if err != nil {
			return err
		}
		for i := 0; i < h.Size; i++ {
			if err := r.Skip(h.ElemType); err != nil {
				return err
			}
		}
		return nil
	case TypeMap:
		h, err := r.ReadMapHeader()
		if err != nil {
			return err
		}
		for i := 0; i < h.Size; i++ {
			if err := r.Skip(h.KeyType); err != nil {
				return err
			}
			if err := r.Skip(h.ValType); err != nil {
				return err
			}
		}
		return nil
	case TypeStruct:
		r.ReadStructBegin()
		for {
			h, err := r.ReadFieldHeader()
			if err != nil {
				return err
			}
			if h.Type == TypeStop {
				break
			}
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
		r.ReadStructEnd()
		return nil
	default:
		return errKind("cannot skip unknown compact type %#x", typ)
	}
}

func wrapTruncated(err error) error {
	return fmt.Errorf("thrift compact: %w", err)
}

func errOverflow(format string, args ...any) error {
	return fmt.Errorf("thrift compact: "+format, args...)
}

func errKind(format string, args ...any) error {
	return fmt.Errorf("thrift compact: "+format, args...)
}
