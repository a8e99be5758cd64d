package parquet

import (
	"fmt"

	"github.com/cobaltwing/parquet/format"
)

// Node is one element of the reconstructed schema tree: a group (Type ==
// nil) or a primitive leaf. Repetition is nil only for the implicit root.
type Node struct {
	Name           string
	Type           *format.Type
	TypeLength     int32
	Repetition     *format.FieldRepetitionType
	ConvertedType  *format.ConvertedType
	LogicalType    *format.LogicalType
	Scale          int32
	Precision      int32
	FieldID        *int32
	Children       []*Node
	Parent         *Node

	// DefLevel and RepLevel are this node's own cumulative definition and
	// repetition level, computed during the same root-to-leaf walk that
	// produces Level for leaves (SPEC_FULL.md "Schema & level model"):
	// every node, not just leaves, carries these so struct validity can be
	// reconstructed from a group's own DefLevel threshold.
	DefLevel int
	RepLevel int

	// Level is non-nil only for primitive leaves; it carries the
	// max_def_level/max_rep_level/repeated_ancestor_def_levels triple used
	// by the nested reconstruction engine.
	Level *LevelInfo
}

// IsGroup reports whether n is a group node (Type == nil).
func (n *Node) IsGroup() bool { return n.Type == nil }

// IsLeaf reports whether n is a primitive leaf.
func (n *Node) IsLeaf() bool { return n.Type != nil }

// IsRepeated, IsOptional, IsRequired classify n's own repetition; the
// implicit root has nil Repetition and answers false to all three.
func (n *Node) IsRepeated() bool {
	return n.Repetition != nil && *n.Repetition == format.Repeated
}
func (n *Node) IsOptional() bool {
	return n.Repetition != nil && *n.Repetition == format.Optional
}
func (n *Node) IsRequired() bool {
	return n.Repetition == nil || *n.Repetition == format.Required
}

// Path returns the field names on the path from the root to n, excluding the root
// itself.
func (n *Node) Path() ColumnPath {
	if n.Parent == nil {
		return nil
	}
	return append(n.Parent.Path(), n.Name)
}

// LevelInfo is the per-leaf level summary spec.md §4.E defines: the
// maximum definition and repetition levels reachable at this leaf, and
// the definition level of its innermost repeated ancestor (the threshold
// distinguishing a null list from an empty-but-present one).
type LevelInfo struct {
	MaxDefinitionLevel       int
	MaxRepetitionLevel       int
	RepeatedAncestorDefLevels []int // length == MaxRepetitionLevel, strictly increasing
}

// InnermostRepeatedAncestorDefLevel returns
// RepeatedAncestorDefLevels[MaxRepetitionLevel-1], or 0 if the leaf has no
// repeated ancestor.
func (l *LevelInfo) InnermostRepeatedAncestorDefLevel() int {
	if l.MaxRepetitionLevel == 0 {
		return 0
	}
	return l.RepeatedAncestorDefLevels[l.MaxRepetitionLevel-1]
}

// Schema is the reconstructed, immutable schema tree for one file.
type Schema struct {
	Root   *Node
	Leaves []*Node // depth-first order, matching the flat on-disk list
}

// NewSchema reconstructs the schema tree from the flat depth-first
// SchemaElement list stored in a file's footer (spec.md §4.E).
func NewSchema(elems []format.SchemaElement) (*Schema, error) {
	if len(elems) == 0 {
		return nil, errKind(InvalidSchema, "empty schema element list")
	}
	if !elems[0].IsGroup() {
		return nil, errKind(InvalidSchema, "root schema element %q is not a group", elems[0].Name)
	}

	root := &Node{Name: elems[0].Name}
	applyElement(root, &elems[0])

	b := &schemaBuilder{elems: elems}
	n, err := b.buildChildren(root, int(numChildrenOf(&elems[0])), 1)
	if err != nil {
		return nil, err
	}
	if n != len(elems) {
		return nil, errKind(InvalidSchema, "schema list declares %d elements but %d were consumed", len(elems), n)
	}

	s := &Schema{Root: root}
	if err := computeLevels(root, 0, 0, nil, &s.Leaves); err != nil {
		return nil, err
	}
	return s, nil
}

func numChildrenOf(e *format.SchemaElement) int32 {
	if e.NumChildren == nil {
		return 0
	}
	return *e.NumChildren
}

type schemaBuilder struct {
	elems []format.SchemaElement
}

// buildChildren attaches count children to parent starting at index pos in
// b.elems, recursively expanding group children. It returns the index
// immediately after the subtree rooted at parent (i.e. how many elements,
// starting from pos, the whole subtree beneath parent consumed).
func (b *schemaBuilder) buildChildren(parent *Node, count int, pos int) (int, error) {
	for i := 0; i < count; i++ {
		if pos >= len(b.elems) {
			return pos, errKind(InvalidSchema, "schema list truncated while reading children of %q", parent.Name)
		}
		e := &b.elems[pos]
		if e.RepetitionType == nil && parent != nil {
			return pos, errKind(InvalidSchema, "non-root schema element %q is missing repetition_type", e.Name)
		}
		child := &Node{Name: e.Name, Parent: parent}
		applyElement(child, e)

		if child.IsGroup() {
			childCount := int(numChildrenOf(e))
			if childCount == 0 {
				return pos, errKind(InvalidSchema, "group schema element %q declares zero children", e.Name)
			}
			next, err := b.buildChildren(child, childCount, pos+1)
			if err != nil {
				return pos, err
			}
			pos = next
		} else {
			if e.Type != nil && *e.Type == format.FixedLenByteArray && e.TypeLength == nil {
				return pos, errKind(InvalidSchema, "FIXED_LEN_BYTE_ARRAY element %q is missing type_length", e.Name)
			}
			pos++
		}
		parent.Children = append(parent.Children, child)
	}
	return pos, nil
}

func applyElement(n *Node, e *format.SchemaElement) {
	n.Type = e.Type
	if e.TypeLength != nil {
		n.TypeLength = *e.TypeLength
	}
	n.Repetition = e.RepetitionType
	n.ConvertedType = e.ConvertedType
	n.LogicalType = e.LogicalType
	if e.Scale != nil {
		n.Scale = *e.Scale
	}
	if e.Precision != nil {
		n.Precision = *e.Precision
	}
	n.FieldID = e.FieldID
}

// computeLevels performs the root-to-leaf walk computing each node's
// cumulative DefLevel/RepLevel and, for leaves, the LevelInfo triple.
// ancestorDefLevels accumulates, for each repeated ancestor seen so far,
// the definition level recorded *before* that ancestor's own +1
// contribution (spec.md §3 "Leaf column").
func computeLevels(n *Node, defLevel, repLevel int, ancestorDefLevels []int, leaves *[]*Node) error {
	if n.Parent != nil {
		if n.IsRepeated() {
			ancestorDefLevels = append(ancestorDefLevels[:len(ancestorDefLevels):len(ancestorDefLevels)], defLevel)
			defLevel++
			repLevel++
		} else if n.IsOptional() {
			defLevel++
		}
	}
	n.DefLevel = defLevel
	n.RepLevel = repLevel

	if n.IsLeaf() {
		levels := append([]int(nil), ancestorDefLevels...)
		for i := 1; i < len(levels); i++ {
			if levels[i] <= levels[i-1] {
				return errKind(InvalidSchema, "repeated_ancestor_def_levels must be strictly increasing at leaf %q", n.Name)
			}
		}
		n.Level = &LevelInfo{
			MaxDefinitionLevel:        defLevel,
			MaxRepetitionLevel:        repLevel,
			RepeatedAncestorDefLevels: levels,
		}
		*leaves = append(*leaves, n)
		return nil
	}
	for _, c := range n.Children {
		if err := computeLevels(c, defLevel, repLevel, ancestorDefLevels, leaves); err != nil {
			return err
		}
	}
	return nil
}

// Flatten serializes the schema tree back into the depth-first
// SchemaElement list the footer expects.
func (s *Schema) Flatten() []format.SchemaElement {
	var out []format.SchemaElement
	flattenNode(s.Root, &out)
	return out
}

func flattenNode(n *Node, out *[]format.SchemaElement) {
	e := format.SchemaElement{Name: n.Name}
	if n.Type != nil {
		t := *n.Type
		e.Type = &t
	}
	if n.TypeLength != 0 {
		tl := n.TypeLength
		e.TypeLength = &tl
	}
	if n.Repetition != nil {
		r := *n.Repetition
		e.RepetitionType = &r
	}
	if n.IsGroup() {
		count := int32(len(n.Children))
		e.NumChildren = &count
	}
	if n.LogicalType != nil {
		lt := *n.LogicalType
		e.LogicalType = &lt
	} else if n.ConvertedType != nil {
		ct := *n.ConvertedType
		e.ConvertedType = &ct
	}
	if n.Scale != 0 {
		s := n.Scale
		e.Scale = &s
	}
	if n.Precision != 0 {
		p := n.Precision
		e.Precision = &p
	}
	e.FieldID = n.FieldID
	*out = append(*out, e)
	for _, c := range n.Children {
		flattenNode(c, out)
	}
}

func (n *Node) String() string {
	if n.IsGroup() {
		return fmt.Sprintf("group %s", n.Name)
	}
	return fmt.Sprintf("%s %s", n.Type, n.Name)
}
