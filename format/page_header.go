package format

import "github.com/cobaltwing/parquet/format/compact"

// DataPageHeader describes a Data Page V1's framing: the level and value
// encodings and the number of (possibly null) values it carries.
type DataPageHeader struct {
	NumValues               int32
	Encoding                 Encoding
	DefinitionLevelEncoding  Encoding
	RepetitionLevelEncoding  Encoding
	Statistics               *Statistics
}

func (h *DataPageHeader) marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(h.NumValues)
	w.WriteFieldHeader(compact.TypeI32, 2)
	w.WriteI32(int32(h.Encoding))
	w.WriteFieldHeader(compact.TypeI32, 3)
	w.WriteI32(int32(h.DefinitionLevelEncoding))
	w.WriteFieldHeader(compact.TypeI32, 4)
	w.WriteI32(int32(h.RepetitionLevelEncoding))
	if h.Statistics != nil {
		w.WriteFieldHeader(compact.TypeStruct, 5)
		h.Statistics.Marshal(w)
	}
	w.WriteStructEnd()
}

func unmarshalDataPageHeader(r *compact.Reader) (*DataPageHeader, error) {
	h := &DataPageHeader{}
	var have [4]bool
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if fh.Type == compact.TypeStop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.NumValues = v
			have[0] = true
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.Encoding = Encoding(v)
			have[1] = true
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.DefinitionLevelEncoding = Encoding(v)
			have[2] = true
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.RepetitionLevelEncoding = Encoding(v)
			have[3] = true
		case 5:
			st := &Statistics{}
			if err := st.Unmarshal(r); err != nil {
				return nil, err
			}
			h.Statistics = st
		default:
			if err := r.Skip(fh.Type); err != nil {
				return nil, err
			}
		}
	}
	for i, name := range [...]string{"num_values", "encoding", "definition_level_encoding", "repetition_level_encoding"} {
		if !have[i] {
			return nil, errRequired("DataPageHeader", name)
		}
	}
	return h, nil
}

// DictionaryPageHeader describes a dictionary page: the number of distinct
// values it carries and their PLAIN-style encoding.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  *bool
}

func (h *DictionaryPageHeader) marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(h.NumValues)
	w.WriteFieldHeader(compact.TypeI32, 2)
	w.WriteI32(int32(h.Encoding))
	if h.IsSorted != nil {
		w.WriteBoolField(3, *h.IsSorted)
	}
	w.WriteStructEnd()
}

func unmarshalDictionaryPageHeader(r *compact.Reader) (*DictionaryPageHeader, error) {
	h := &DictionaryPageHeader{}
	var have [2]bool
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if fh.Type == compact.TypeStop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.NumValues = v
			have[0] = true
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.Encoding = Encoding(v)
			have[1] = true
		case 3:
			v, err := compact.ReadBoolField(fh)
			if err != nil {
				return nil, err
			}
			h.IsSorted = &v
		default:
			if err := r.Skip(fh.Type); err != nil {
				return nil, err
			}
		}
	}
	for i, name := range [...]string{"num_values", "encoding"} {
		if !have[i] {
			return nil, errRequired("DictionaryPageHeader", name)
		}
	}
	return h, nil
}

// PageHeader precedes every page (data, dictionary, or index) in a column
// chunk. Index pages and Data Page V2 are out of scope (spec Non-goals):
// an IndexPage PageType is tolerated and its body skipped by the caller,
// while a DataPageHeaderV2 field id is never populated by this writer and
// causes Unsupported if ever read (see column_chunk_reader.go).
type PageHeader struct {
	Type                  PageType
	UncompressedPageSize  int32
	CompressedPageSize    int32
	CRC                   *int32
	DataPageHeader        *DataPageHeader
	DictionaryPageHeader  *DictionaryPageHeader
	hasDataPageHeaderV2   bool
}

// HasDataPageHeaderV2 reports whether the encoded header carried a
// data_page_header_v2 field (id 8), which this implementation does not
// decode further.
func (h *PageHeader) HasDataPageHeaderV2() bool { return h.hasDataPageHeaderV2 }

func (h *PageHeader) Marshal(w *compact.Writer) {
	w.WriteStructBegin()
	w.WriteFieldHeader(compact.TypeI32, 1)
	w.WriteI32(int32(h.Type))
	w.WriteFieldHeader(compact.TypeI32, 2)
	w.WriteI32(h.UncompressedPageSize)
	w.WriteFieldHeader(compact.TypeI32, 3)
	w.WriteI32(h.CompressedPageSize)
	if h.CRC != nil {
		w.WriteFieldHeader(compact.TypeI32, 4)
		w.WriteI32(*h.CRC)
	}
	if h.DataPageHeader != nil {
		w.WriteFieldHeader(compact.TypeStruct, 5)
		h.DataPageHeader.marshal(w)
	}
	if h.DictionaryPageHeader != nil {
		w.WriteFieldHeader(compact.TypeStruct, 7)
		h.DictionaryPageHeader.marshal(w)
	}
	w.WriteStructEnd()
}

func (h *PageHeader) Unmarshal(r *compact.Reader) error {
	r.ReadStructBegin()
	defer r.ReadStructEnd()
	var have [3]bool
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Type == compact.TypeStop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.Type = PageType(v)
			have[0] = true
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.UncompressedPageSize = v
			have[1] = true
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.CompressedPageSize = v
			have[2] = true
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return err
			}
			h.CRC = &v
		case 5:
			dh, err := unmarshalDataPageHeader(r)
			if err != nil {
				return err
			}
			h.DataPageHeader = dh
		case 6:
			// index_page_header: empty struct in the upstream schema, benign to skip.
			if err := r.Skip(fh.Type); err != nil {
				return err
			}
		case 7:
			dph, err := unmarshalDictionaryPageHeader(r)
			if err != nil {
				return err
			}
			h.DictionaryPageHeader = dph
		case 8:
			h.hasDataPageHeaderV2 = true
			if err := r.Skip(fh.Type); err != nil {
				return err
			}
		default:
			if err := r.Skip(fh.Type); err != nil {
				return err
			}
		}
	}
	for i, name := range [...]string{"type", "uncompressed_page_size", "compressed_page_size"} {
		if !have[i] {
			return errRequired("PageHeader", name)
		}
	}
	return nil
}
