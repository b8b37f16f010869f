package doc

import (
	"github.com/confblend/blend/debug"
	"github.com/confblend/blend/ir"
)

// Traverse writes a nested change-set into a live document tree, preserving
// everything the change-set does not touch. Absent keys are appended at the
// end, the change value taken verbatim; present keys are overwritten
// (scalars), recursed into (mappings), or merged index by index (sequences).
// Nothing is ever deleted. Applying the same change-set twice produces the
// same tree as applying it once.
func Traverse(target, change *ir.Node) {
	if target == nil || change == nil {
		return
	}
	if target.Type != ir.ObjectType || change.Type != ir.ObjectType {
		return
	}
	for i, field := range change.Fields {
		key := field.String
		value := change.Values[i]
		existing := ir.Get(target, key)
		if existing == nil {
			if debug.Apply() {
				debug.Logf("apply: insert %q at %s\n", key, target.Path())
			}
			target.Set(key, value.Clone())
			continue
		}
		switch {
		case value.Type.IsLeaf():
			target.Set(key, value.Clone())
		case value.Type == ir.ObjectType:
			if existing.Type != ir.ObjectType {
				target.Set(key, value.Clone())
				continue
			}
			Traverse(existing, value)
		case value.Type == ir.ArrayType:
			if existing.Type != ir.ArrayType {
				target.Set(key, value.Clone())
				continue
			}
			traverseList(existing, value)
		}
	}
}

func traverseList(target, change *ir.Node) {
	for i, element := range change.Values {
		if i >= len(target.Values) {
			target.Append(element.Clone())
			continue
		}
		existing := target.Values[i]
		if existing.Type.IsLeaf() {
			// replace a scalar with whatever the change holds, without
			// traversing, even when the change element is structured
			target.SetIndex(i, element.Clone())
			continue
		}
		if element.Type.IsLeaf() {
			target.SetIndex(i, element.Clone())
			continue
		}
		if existing.Type == ir.ArrayType && element.Type == ir.ArrayType {
			traverseList(existing, element)
			continue
		}
		Traverse(existing, element)
	}
}
