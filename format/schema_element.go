package format

import "github.com/cobaltwing/parquet/format/compact"

// SchemaElement is one node of the depth-first flattened schema tree: a
// group node (Type == nil) carries NumChildren and no physical type; a
// primitive node carries Type and zero children.
type SchemaElement struct {
	Type            *Type
	TypeLength      *int32
	RepetitionType  *FieldRepetitionType
	Name            string
	NumChildren     *int32
	ConvertedType   *ConvertedType
	Scale           *int32
	Precision       *int32
	FieldID         *int32
	LogicalType     *LogicalType
}

func (s *SchemaElement) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	if s.Type != nil {
		w.WriteFieldHeader(compact.TypeI32, 1)
		w.WriteI32(int32(*s.Type))
	}
	if s.TypeLength != nil {
		w.WriteFieldHeader(compact.TypeI32, 2)
		w.WriteI32(*s.TypeLength)
	}
	if s.RepetitionType != nil {
		w.WriteFieldHeader(compact.TypeI32, 3)
		w.WriteI32(int32(*s.RepetitionType))
	}
	w.WriteFieldHeader(compact.TypeBinary, 4)
	w.WriteString(s.Name)
	if s.NumChildren != nil {
		w.WriteFieldHeader(compact.TypeI32, 5)
		w.WriteI32(*s.NumChildren)
	}
	if s.ConvertedType != nil {
		w.WriteFieldHeader(compact.TypeI32, 6)
		w.WriteI32(int32(*s.ConvertedType))
	}
	if s.Scale != nil {
		w.WriteFieldHeader(compact.TypeI32, 7)
		w.WriteI32(*s.Scale)
	}
	if s.Precision != nil {
		w.WriteFieldHeader(compact.TypeI32, 8)
		w.WriteI32(*s.Precision)
	}
	if s.FieldID != nil {
		w.WriteFieldHeader(compact.TypeI32, 9)
		w.WriteI32(*s.FieldID)
	}
	if s.LogicalType != nil {
		w.WriteFieldHeader(compact.TypeStruct, 10)
		s.LogicalType.marshal(w)
	}
	w.WriteStructEnd()
}

func (s *SchemaElement) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	haveName := false
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
			t := Type(v)
			s.Type = &t
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.TypeLength = &v
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			rt := FieldRepetitionType(v)
			s.RepetitionType = &rt
		case 4:
			v, err := r.ReadString()
			if err != nil {
				return err
			}
			s.Name = v
			haveName = true
		case 5:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.NumChildren = &v
		case 6:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			ct := ConvertedType(v)
			s.ConvertedType = &ct
		case 7:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Scale = &v
		case 8:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.Precision = &v
		case 9:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			s.FieldID = &v
		case 10:
			lt, err := unmarshalLogicalType(r)
			if err != nil {
				return err
			}
			s.LogicalType = &lt
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	if !haveName {
		return errRequired("SchemaElement", "name")
	}
	return nil
}

// IsGroup reports whether this schema element is a group node (has
// children / no physical type) rather than a primitive leaf.
func (s *SchemaElement) IsGroup() bool { return s.Type == nil }
