package parquet

import "strings"

// ColumnPath is the root-to-leaf sequence of field names identifying a
// column, as stored in ColumnMetaData.PathInSchema.
type ColumnPath []string

func (p ColumnPath) String() string { return strings.Join(p, ".") }

func (p ColumnPath) Equal(other ColumnPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
