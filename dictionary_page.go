package parquet

import "github.com/cobaltwing/parquet/format"

// DecodeDictionaryPage populates dict from a decompressed dictionary page
// payload, per the header's declared entry count. Dictionary pages are
// always PLAIN-encoded (spec.md §4.F), regardless of IsSorted.
func DecodeDictionaryPage(dict *Dictionary, header *format.DictionaryPageHeader, payload []byte) error {
	if header.Encoding != format.PlainEncoding && header.Encoding != format.PlainDictionary {
		return errKind(Unsupported, "dictionary page encoding %s is not implemented", header.Encoding)
	}
	return dict.Decode(payload, int(header.NumValues))
}

// EncodeDictionaryPage serializes dict's current contents into a
// dictionary page payload and the header describing it.
func EncodeDictionaryPage(dict *Dictionary) (*format.DictionaryPageHeader, []byte, error) {
	payload, err := dict.Encode(nil)
	if err != nil {
		return nil, nil, err
	}
	return &format.DictionaryPageHeader{
		NumValues: int32(dict.Len()),
		Encoding:  format.PlainEncoding,
		IsSorted:  boolPtr(false),
	}, payload, nil
}

func boolPtr(b bool) *bool { return &b }
