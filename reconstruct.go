package parquet

import "github.com/cobaltwing/parquet/format"

// reconstruct.go rebuilds nested Go values (maps, slices, scalars) from the
// flat per-leaf (value, definition level, repetition level) triples pages
// decode, following the Dremel shredding algorithm spec.md §4.E describes.
// It is grounded on Apache Arrow-Go's RecordReader.delimitRecords, which
// detects row boundaries in a single column's repetition-level stream by
// watching for repetition level 0 (other_examples/ wolfeidau-arrow-go
// parquet file record_reader.go); this implementation generalizes that
// boundary rule to walk the whole schema tree instead of one column.
//
// Sibling leaves that share a repeated ancestor are assumed to stay in
// lockstep with the first (leftmost) leaf beneath that ancestor when
// deciding whether a group is present or a repeated group has another
// element. This holds for every shape in spec.md's worked examples (list
// of struct, struct of list, map, nested list) but can desync for a
// schema with sibling repeated subgroups of differing depth under the
// same parent; see DESIGN.md.

type valueCursor struct {
	values []Value
	pos    int
}

func (c *valueCursor) peek() (Value, bool) {
	if c.pos >= len(c.values) {
		return Value{}, false
	}
	return c.values[c.pos], true
}

func (c *valueCursor) next() Value {
	v := c.values[c.pos]
	c.pos++
	return v
}

// Assembler reconstructs rows from independently decoded per-leaf value
// streams that share the same schema and row count.
type Assembler struct {
	schema     *Schema
	cursors    map[*Node]*valueCursor
	firstLeaf  map[*Node]*Node
}

// NewAssembler builds an Assembler over perLeafValues, keyed by the same
// *Node pointers as schema.Leaves.
func NewAssembler(schema *Schema, perLeafValues map[*Node][]Value) *Assembler {
	a := &Assembler{
		schema:    schema,
		cursors:   make(map[*Node]*valueCursor, len(schema.Leaves)),
		firstLeaf: make(map[*Node]*Node),
	}
	for _, leaf := range schema.Leaves {
		a.cursors[leaf] = &valueCursor{values: perLeafValues[leaf]}
	}
	computeFirstLeaf(schema.Root, a.firstLeaf)
	return a
}

func computeFirstLeaf(n *Node, out map[*Node]*Node) *Node {
	if n.IsLeaf() {
		out[n] = n
		return n
	}
	var first *Node
	for _, c := range n.Children {
		f := computeFirstLeaf(c, out)
		if first == nil {
			first = f
		}
	}
	out[n] = first
	return first
}

// HasMore reports whether any leaf still has unconsumed values.
func (a *Assembler) HasMore() bool {
	for _, c := range a.cursors {
		if _, ok := c.peek(); ok {
			return true
		}
	}
	return false
}

// Next assembles and returns the next top-level record as nested
// map[string]any/[]any/scalar values. Call it only while HasMore is true.
func (a *Assembler) Next() map[string]any {
	return a.assembleGroup(a.schema.Root, 0)
}

func (a *Assembler) assembleGroup(g *Node, parentRep int) map[string]any {
	rec := make(map[string]any, len(g.Children))
	for _, c := range g.Children {
		rec[c.Name] = a.assembleField(c, parentRep)
	}
	return rec
}

func (a *Assembler) assembleField(n *Node, parentRep int) any {
	if n.IsLeaf() {
		return a.assembleLeaf(n, parentRep)
	}

	rep := a.firstLeaf[n]
	if n.IsRepeated() {
		var elems []any
		first := true
		for {
			v, ok := a.cursors[rep].peek()
			if !ok {
				break
			}
			r := int(v.RepetitionLevel())
			if first {
				if r < parentRep {
					break
				}
			} else if r < n.RepLevel {
				break
			}
			if int(v.DefinitionLevel()) < n.DefLevel {
				a.consumeAbsence(n)
				break
			}
			childRep := parentRep
			if !first {
				childRep = n.RepLevel
			}
			elems = append(elems, a.assembleGroup(n, childRep))
			first = false
		}
		return elems
	}

	v, ok := a.cursors[rep].peek()
	if !ok {
		return nil
	}
	if int(v.DefinitionLevel()) < n.DefLevel {
		a.consumeAbsence(n)
		return nil
	}
	return a.assembleGroup(n, parentRep)
}

func (a *Assembler) assembleLeaf(n *Node, parentRep int) any {
	c := a.cursors[n]
	v, ok := c.peek()
	if !ok || int(v.RepetitionLevel()) < parentRep {
		return nil
	}

	if n.IsRepeated() {
		var elems []any
		first := true
		for {
			v, ok := c.peek()
			if !ok {
				break
			}
			r := int(v.RepetitionLevel())
			if first {
				if r < parentRep {
					break
				}
			} else if r < n.RepLevel {
				break
			}
			c.next()
			if int(v.DefinitionLevel()) >= n.DefLevel {
				elems = append(elems, leafScalar(v))
			}
			first = false
		}
		return elems
	}

	c.next()
	if int(v.DefinitionLevel()) < n.DefLevel {
		return nil
	}
	return leafScalar(v)
}

// consumeAbsence advances every descendant leaf's cursor by exactly one
// slot, matching the single def-level entry an absent optional group or
// null list occupies in every leaf beneath it.
func (a *Assembler) consumeAbsence(n *Node) {
	for _, leaf := range a.schema.Leaves {
		if !isDescendant(n, leaf) {
			continue
		}
		c := a.cursors[leaf]
		if _, ok := c.peek(); ok {
			c.next()
		}
	}
}

func isDescendant(ancestor, n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// leafScalar unwraps a non-null Value into the plain Go value its physical
// kind carries, for embedding in an assembled record.
func leafScalar(v Value) any {
	switch v.Kind() {
	case format.Boolean:
		return v.Boolean()
	case format.Int32:
		return v.Int32()
	case format.Int64:
		return v.Int64()
	case format.Int96:
		return v.Int96()
	case format.Float:
		return v.Float()
	case format.Double:
		return v.Double()
	default:
		return v.ByteArray()
	}
}
