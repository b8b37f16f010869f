// Package listdiff compares two lists positionally, reporting only
// additions and changes; removals never appear in a diff.
package listdiff

import (
	"github.com/confblend/blend/ir"
)

// AddedOrChanged returns the elements of expected that are new or changed
// relative to actual, comparing index by index. Elements past the end of
// actual are additions. A differing element with at least one scalar side is
// a change and is reported as-is. When both sides of a differing index are
// containers of the same kind the difference is nested and cannot be
// expressed positionally, so the whole expected list is returned instead.
// Returns nil when expected adds or changes nothing.
func AddedOrChanged(actual, expected *ir.Node) *ir.Node {
	if expected == nil || expected.Type != ir.ArrayType {
		return nil
	}
	var actualVals []*ir.Node
	if actual != nil && actual.Type == ir.ArrayType {
		actualVals = actual.Values
	}
	out := ir.Array()
	for i, exp := range expected.Values {
		if i >= len(actualVals) {
			out.Append(exp.Clone())
			continue
		}
		act := actualVals[i]
		if ir.Equal(act, exp) {
			continue
		}
		if act.Type == exp.Type && !act.Type.IsLeaf() {
			return expected.Clone()
		}
		out.Append(exp.Clone())
	}
	if len(out.Values) == 0 {
		return nil
	}
	return out
}
