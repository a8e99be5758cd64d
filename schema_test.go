package parquet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobaltwing/parquet"
	"github.com/cobaltwing/parquet/format"
)

func typ(t format.Type) *format.Type { return &t }
func rep(r format.FieldRepetitionType) *format.FieldRepetitionType { return &r }
func i32(v int32) *int32 { return &v }

// flatPrimitiveSchema mirrors spec.md scenario 1: a required int32 and an
// optional STRING byte_array at the top level.
func flatPrimitiveSchema(t *testing.T) *parquet.Schema {
	t.Helper()
	str := format.StringLogicalType()
	elems := []format.SchemaElement{
		{Name: "schema", NumChildren: i32(2)},
		{Name: "id", Type: typ(format.Int32), RepetitionType: rep(format.Required)},
		{Name: "name", Type: typ(format.ByteArray), RepetitionType: rep(format.Optional), LogicalType: &str},
	}
	s, err := parquet.NewSchema(elems)
	require.NoError(t, err)
	return s
}

// listOfInt32Schema mirrors spec.md scenario 2: list<int32>, an optional
// outer group wrapping a repeated inner group with an optional element.
func listOfInt32Schema(t *testing.T) *parquet.Schema {
	t.Helper()
	listAnn := format.ListLogicalType()
	elems := []format.SchemaElement{
		{Name: "schema", NumChildren: i32(1)},
		{Name: "values", RepetitionType: rep(format.Optional), NumChildren: i32(1), LogicalType: &listAnn},
		{Name: "list", RepetitionType: rep(format.Repeated), NumChildren: i32(1)},
		{Name: "element", Type: typ(format.Int32), RepetitionType: rep(format.Optional)},
	}
	s, err := parquet.NewSchema(elems)
	require.NoError(t, err)
	return s
}

// nestedListSchema mirrors spec.md scenario 4: list<list<int32>>.
func nestedListSchema(t *testing.T) *parquet.Schema {
	t.Helper()
	listAnn := format.ListLogicalType()
	elems := []format.SchemaElement{
		{Name: "schema", NumChildren: i32(1)},
		{Name: "values", RepetitionType: rep(format.Optional), NumChildren: i32(1), LogicalType: &listAnn},
		{Name: "list", RepetitionType: rep(format.Repeated), NumChildren: i32(1)},
		{Name: "element", RepetitionType: rep(format.Optional), NumChildren: i32(1), LogicalType: &listAnn},
		{Name: "list", RepetitionType: rep(format.Repeated), NumChildren: i32(1)},
		{Name: "element", Type: typ(format.Int32), RepetitionType: rep(format.Optional)},
	}
	s, err := parquet.NewSchema(elems)
	require.NoError(t, err)
	return s
}

func TestSchemaLevelsFlat(t *testing.T) {
	s := flatPrimitiveSchema(t)
	require.Len(t, s.Leaves, 2)

	id, name := s.Leaves[0], s.Leaves[1]
	require.Equal(t, "id", id.Name)
	require.Equal(t, 0, id.Level.MaxDefinitionLevel)
	require.Equal(t, 0, id.Level.MaxRepetitionLevel)

	require.Equal(t, "name", name.Name)
	require.Equal(t, 1, name.Level.MaxDefinitionLevel)
	require.Equal(t, 0, name.Level.MaxRepetitionLevel)
}

func TestSchemaLevelsList(t *testing.T) {
	s := listOfInt32Schema(t)
	require.Len(t, s.Leaves, 1)

	leaf := s.Leaves[0]
	require.Equal(t, "element", leaf.Name)
	require.Equal(t, 3, leaf.Level.MaxDefinitionLevel)
	require.Equal(t, 1, leaf.Level.MaxRepetitionLevel)
	require.Equal(t, []int{1}, leaf.Level.RepeatedAncestorDefLevels)
}

func TestSchemaLevelsNestedList(t *testing.T) {
	s := nestedListSchema(t)
	require.Len(t, s.Leaves, 1)

	leaf := s.Leaves[0]
	require.Equal(t, 5, leaf.Level.MaxDefinitionLevel)
	require.Equal(t, 2, leaf.Level.MaxRepetitionLevel)
	require.Equal(t, []int{1, 3}, leaf.Level.RepeatedAncestorDefLevels)
}

func TestSchemaRejectsEmptyElementList(t *testing.T) {
	_, err := parquet.NewSchema(nil)
	require.Error(t, err)
	require.True(t, parquet.IsKind(err, parquet.InvalidSchema))
}

func TestSchemaRejectsNonGroupRoot(t *testing.T) {
	elems := []format.SchemaElement{
		{Name: "root", Type: typ(format.Int32)},
	}
	_, err := parquet.NewSchema(elems)
	require.Error(t, err)
	require.True(t, parquet.IsKind(err, parquet.InvalidSchema))
}

func TestSchemaRejectsMissingTypeLength(t *testing.T) {
	elems := []format.SchemaElement{
		{Name: "schema", NumChildren: i32(1)},
		{Name: "id", Type: typ(format.FixedLenByteArray), RepetitionType: rep(format.Required)},
	}
	_, err := parquet.NewSchema(elems)
	require.Error(t, err)
	require.True(t, parquet.IsKind(err, parquet.InvalidSchema))
}

func TestSchemaFlattenRoundTrip(t *testing.T) {
	s := listOfInt32Schema(t)
	flat := s.Flatten()
	s2, err := parquet.NewSchema(flat)
	require.NoError(t, err)
	require.Equal(t, s.Flatten(), s2.Flatten())
}
