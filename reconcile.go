package blend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/confblend/blend/debug"
	"github.com/confblend/blend/ir"
	"github.com/confblend/blend/listdiff"
	"github.com/confblend/blend/query"
)

// ReconcileByUniqueKey matches elements of two lists by the value of a
// nested field instead of by position. It returns the expected elements that
// are new or changed (for display) and the whole merged list (for writing
// back). The merge is additive: elements and list members are never removed,
// so running it twice with the same inputs yields no further changes.
//
// When parent is non-empty the identifying field lives in the nested list
// under parent, and a changed match splices the nested diff into a clone of
// the matching actual element at the position of the first sub-element equal
// to the pre-diff nested value; first match wins.
func ReconcileByUniqueKey(actualList, expectedList *ir.Node, nested, parent string) (newOrChanged, merged *ir.Node, err error) {
	if expectedList == nil || expectedList.Type != ir.ArrayType {
		return nil, nil, fmt.Errorf("expected list is %s, want array", typeOf(expectedList))
	}
	if actualList == nil {
		actualList = ir.Array()
	}
	if actualList.Type != ir.ArrayType {
		return nil, nil, fmt.Errorf("actual list is %s, want array", actualList.Type)
	}

	jmesKey := nested
	if parent != "" {
		jmesKey = parent + "[]." + nested
	}
	keyQuery, err := query.Compile(jmesKey)
	if err != nil {
		return nil, nil, err
	}
	allKeysQuery, err := query.Compile("[]." + jmesKey)
	if err != nil {
		return nil, nil, err
	}

	actualKeys := allKeysQuery.Search(actualList)
	if actualKeys == nil || len(actualKeys.Values) == 0 {
		// no actual keys at all: insert the whole expected block
		merged = actualList.Clone()
		for _, el := range expectedList.Values {
			merged.Append(el.Clone())
		}
		return expectedList.Clone(), merged, nil
	}

	actualKeySet := make(map[string]bool, len(actualKeys.Values))
	for _, k := range actualKeys.Values {
		actualKeySet[keyString(k)] = true
	}
	actualIndex := map[string]int{}
	for i, el := range actualList.Values {
		for _, k := range iterable(keyQuery.Search(el)) {
			actualIndex[keyString(k)] = i
		}
	}

	display := ir.Array()
	merged = actualList.Clone()
	for _, expEl := range expectedList.Values {
		el := expEl.Clone()
		expKeys := iterable(keyQuery.Search(el))
		if len(expKeys) == 0 {
			// element carries no key: insert it whole
			display.Append(el.Clone())
			merged.Append(el.Clone())
			continue
		}
		for _, ek := range expKeys {
			eks := keyString(ek)
			if !actualKeySet[eks] {
				display.Append(el.Clone())
				merged.Append(el.Clone())
				continue
			}
			idx, ok := actualIndex[eks]
			if !ok {
				continue
			}
			if debug.Reconcile() {
				debug.Logf("reconcile: key %q matches actual[%d]\n", eks, idx)
			}
			if parent == "" {
				delta, mergedEl := additiveMerge(actualList.Values[idx], el)
				if delta == nil {
					continue
				}
				display.Append(el.Clone())
				merged.SetIndex(idx, mergedEl)
				continue
			}
			if err := spliceNested(actualList, el, merged, display, idx, nested, parent, ek); err != nil {
				return nil, nil, err
			}
		}
	}
	return display, merged, nil
}

// spliceNested handles a keyed match whose identifying field lives under
// parent: diff the nested sub-lists selected by the key and replace the
// first sub-element equal to the pre-diff nested value.
func spliceNested(actualList, el, merged, display *ir.Node, idx int, nested, parent string, key *ir.Node) error {
	filterQuery, err := query.Compile(parent + "[?" + nested + "=='" + escapeKey(keyString(key)) + "']")
	if err != nil {
		return err
	}
	actualNested := filterQuery.Search(actualList.Values[idx])
	if actualNested == nil {
		actualNested = ir.Array()
	}
	expectedNested := filterQuery.Search(el)
	if expectedNested == nil || len(expectedNested.Values) == 0 {
		expectedNested = ir.FromSlice([]*ir.Node{ir.Object()})
	}
	diffNested := listdiff.AddedOrChanged(actualNested, expectedNested)
	if diffNested == nil {
		return nil
	}
	el.Set(parent, diffNested.Clone())
	display.Append(el.Clone())

	newBlock := actualList.Values[idx].Clone()
	if sub := ir.Get(newBlock, parent); sub != nil && len(actualNested.Values) > 0 {
		for ni, obj := range sub.Values {
			if !ir.Equal(obj, actualNested.Values[0]) {
				continue
			}
			repl := diffNested.Values[0].Clone()
			repl.Parent = sub
			repl.ParentIndex = ni
			sub.Values[ni] = repl
			break
		}
	}
	merged.SetIndex(idx, newBlock)
	return nil
}

// additiveMerge deep-merges expected into actual without removing anything:
// absent object fields are added, list members of expected not already
// present are appended, and differing scalars take the expected value. The
// returned delta is nil when expected adds or changes nothing.
func additiveMerge(actual, expected *ir.Node) (delta, merged *ir.Node) {
	if actual.Type != expected.Type {
		if ir.Equal(actual, expected) {
			return nil, actual.Clone()
		}
		return expected.Clone(), expected.Clone()
	}
	switch actual.Type {
	case ir.ObjectType:
		merged = actual.Clone()
		delta = ir.Object()
		for i, field := range expected.Fields {
			key := field.String
			ev := expected.Values[i]
			av := ir.Get(actual, key)
			if av == nil {
				merged.Set(key, ev.Clone())
				delta.Set(key, ev.Clone())
				continue
			}
			d, m := additiveMerge(av, ev)
			merged.Set(key, m)
			if d != nil {
				delta.Set(key, d)
			}
		}
		if len(delta.Fields) == 0 {
			return nil, merged
		}
		return delta, merged
	case ir.ArrayType:
		merged = actual.Clone()
		delta = ir.Array()
		for _, ev := range expected.Values {
			found := false
			for _, av := range actual.Values {
				if ir.Equal(av, ev) {
					found = true
					break
				}
			}
			if found {
				continue
			}
			merged.Append(ev.Clone())
			delta.Append(ev.Clone())
		}
		if len(delta.Values) == 0 {
			return nil, merged
		}
		return delta, merged
	default:
		if ir.Equal(actual, expected) {
			return nil, actual.Clone()
		}
		return expected.Clone(), expected.Clone()
	}
}

// iterable returns the node's elements when it is an array, the node itself
// otherwise, nil for nil.
func iterable(y *ir.Node) []*ir.Node {
	if y == nil {
		return nil
	}
	if y.Type == ir.ArrayType {
		return y.Values
	}
	return []*ir.Node{y}
}

// keyString renders a key value for indexing and filter expressions.
func keyString(y *ir.Node) string {
	switch y.Type {
	case ir.StringType:
		return y.String
	case ir.NumberType:
		return y.NumberString()
	case ir.BoolType:
		if y.Bool {
			return "true"
		}
		return "false"
	default:
		d, err := json.Marshal(ir.ToAny(y))
		if err != nil {
			return ""
		}
		return string(d)
	}
}

func escapeKey(k string) string {
	return strings.ReplaceAll(k, "'", `\'`)
}

func typeOf(y *ir.Node) string {
	if y == nil {
		return "nil"
	}
	return y.Type.String()
}
