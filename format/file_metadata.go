package format

import (
	"fmt"

	"github.com/cobaltwing/parquet/format/compact"
)

// FileMetaData is the root footer struct: the whole file's schema, row
// groups, and free-form metadata.
type FileMetaData struct {
	Version            int32
	Schema             []SchemaElement
	NumRows            int64
	RowGroups          []RowGroup
	KeyValueMetadata   []KeyValue
	CreatedBy          *string
}

func (m *FileMetaData) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(m.Version)

	w.WriteFieldHeader(compact.TypeList, 2)
	w.WriteListHeader(compact.TypeStruct, len(m.Schema))
	for i := range m.Schema {
		m.Schema[i].Marshal(w)
	}

	w.WriteFieldHeader(compact.TypeI64, 3)
	w.WriteI64(m.NumRows)

	w.WriteFieldHeader(compact.TypeList, 4)
	w.WriteListHeader(compact.TypeStruct, len(m.RowGroups))
	for i := range m.RowGroups {
		m.RowGroups[i].Marshal(w)
	}

	if m.KeyValueMetadata != nil {
		w.WriteFieldHeader(compact.TypeList, 5)
		w.WriteListHeader(compact.TypeStruct, len(m.KeyValueMetadata))
		for i := range m.KeyValueMetadata {
			m.KeyValueMetadata[i].Marshal(w)
		}
	}
	if m.CreatedBy != nil {
		w.WriteFieldHeader(compact.TypeBinary, 6)
		w.WriteString(*m.CreatedBy)
	}
	w.WriteStructEnd()
}

// Unmarshal decodes a FileMetaData, failing with a descriptive error when a
// required field (version, schema, num_rows, row_groups) is absent. Column
// orders, the encryption algorithm, and the footer signing key (field ids
// 7-9) are legacy/encryption-only fields this implementation does not carry
// and are skipped unconditionally.
func (m *FileMetaData) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	var have [4]bool
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
			m.Version = v
			have[0] = true
		case 2:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.Schema = make([]SchemaElement, lh.Size)
			for i := range m.Schema {
				if err := m.Schema[i].Unmarshal(r); err != nil {
					return err
				}
			}
			have[1] = true
		case 3:
			v, err := r.ReadI64()
			if err != nil {
				return err
			}
			m.NumRows = v
			have[2] = true
		case 4:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.RowGroups = make([]RowGroup, lh.Size)
			for i := range m.RowGroups {
				if err := m.RowGroups[i].Unmarshal(r); err != nil {
					return err
				}
			}
			have[3] = true
		case 5:
			lh, err := r.ReadListHeader()
			if err != nil {
				return err
			}
			m.KeyValueMetadata = make([]KeyValue, lh.Size)
			for i := range m.KeyValueMetadata {
				if err := m.KeyValueMetadata[i].Unmarshal(r); err != nil {
					return err
				}
			}
		case 6:
			v, err := r.ReadString()
			if err != nil {
				return err
			}
			m.CreatedBy = &v
		default:
			if err := r.Skip(h.Type); err != nil {
				return err
			}
		}
	}
	for i, name := range [...]string{"version", "schema", "num_rows", "row_groups"} {
		if !have[i] {
			return errRequired("FileMetaData", name)
		}
	}
	return nil
}

// Marshal serializes a FileMetaData to a fresh buffer.
func Marshal(m *FileMetaData) []byte {
	w := compact.NewWriter()
	m.Marshal(w)
	return w.Bytes()
}

// Unmarshal decodes a FileMetaData from buf, which must contain exactly the
// footer bytes (no length prefix or magic).
func Unmarshal(buf []byte) (*FileMetaData, error) {
	r := compact.NewReader(buf)
	m := &FileMetaData{}
	if err := m.Unmarshal(r); err != nil {
		return nil, fmt.Errorf("format: decoding FileMetaData: %w", err)
	}
	return m, nil
}
