package blend

import (
	"github.com/confblend/blend/debug"
	"github.com/confblend/blend/ir"
	"github.com/confblend/blend/listdiff"
)

// UniqueKey names the field that identifies elements of a list across two
// documents, with an optional parent field when the identifying field lives
// in a nested list.
type UniqueKey struct {
	Nested string
	Parent string
}

// UniqueKeys maps a flat key (dot separated) to the unique key configuration
// for the list stored under it. It originates from externally validated
// configuration and is treated as opaque here.
type UniqueKeys map[string]UniqueKey

// Comparison is the result of comparing an expected document against an
// actual one: values only in expected (missing), values that changed (diff),
// and lists needing a structural merge (replace).
type Comparison struct {
	FlatActual   map[string]*ir.Node
	FlatExpected map[string]*ir.Node

	missing *ir.Node
	diff    *ir.Node
	replace *ir.Node
}

// Missing returns the nested missing data, nil when there is none.
func (c *Comparison) Missing() *ir.Node {
	return c.missing
}

// Diff returns the nested differing data, nil when there is none.
func (c *Comparison) Diff() *ir.Node {
	return c.diff
}

// Replace returns the nested lists to be replaced wholesale, nil when there
// are none.
func (c *Comparison) Replace() *ir.Node {
	return c.replace
}

func (c *Comparison) HasChanges() bool {
	return c.missing != nil || c.diff != nil || c.replace != nil
}

// Compare flattens both documents with the dot separator and computes the
// missing, diff and replace buckets. List values whose flat key appears in
// uniqueKeys are reconciled by unique key; other lists get a positional
// additions-and-changes diff.
func Compare(actual, expected *ir.Node, uniqueKeys UniqueKeys) (*Comparison, error) {
	ab := NewBlender(Separator(Dot), ExtendLists(false)).Add(actual)
	eb := NewBlender(Separator(Dot), ExtendLists(false)).Add(expected)
	c := &Comparison{FlatActual: ab.Flat(), FlatExpected: eb.Flat()}

	contained := true
	for _, key := range eb.Keys() {
		av, ok := c.FlatActual[key]
		if !ok || !ir.Equal(av, c.FlatExpected[key]) {
			contained = false
			break
		}
	}
	if contained {
		return c, nil
	}

	var missing, diff, replace []ir.KeyVal
	for _, key := range eb.Keys() {
		exp := c.FlatExpected[key]
		act, ok := c.FlatActual[key]
		if !ok {
			missing = append(missing, flatKV(key, exp.Clone()))
			continue
		}
		if exp.Type == ir.ArrayType {
			if uk, ok := uniqueKeys[key]; ok && uk.Nested != "" {
				if debug.Compare() {
					debug.Logf("compare: reconcile %q by %q/%q\n", key, uk.Nested, uk.Parent)
				}
				newEls, merged, err := ReconcileByUniqueKey(act, exp, uk.Nested, uk.Parent)
				if err != nil {
					return nil, err
				}
				if newEls != nil && len(newEls.Values) > 0 {
					missing = append(missing, flatKV(key, newEls))
					if merged != nil && len(merged.Values) > 0 {
						replace = append(replace, flatKV(key, merged))
					}
				}
				continue
			}
			if d := listdiff.AddedOrChanged(act, exp); d != nil {
				diff = append(diff, flatKV(key, d))
			}
			continue
		}
		if !ir.Equal(exp, act) {
			diff = append(diff, flatKV(key, exp.Clone()))
		}
	}

	c.missing = nestOrNil(missing)
	c.diff = nestOrNil(diff)
	c.replace = nestOrNil(replace)
	return c, nil
}

func flatKV(key string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: ir.FromString(key), Val: v}
}

// nestOrNil unflattens a bucket of flat-keyed entries into nested form, nil
// when the bucket is empty.
func nestOrNil(kvs []ir.KeyVal) *ir.Node {
	if len(kvs) == 0 {
		return nil
	}
	return NewBlender(Separator(Dot), FlattenOnAdd(false)).
		Add(ir.FromKeyVals(kvs)).
		Mix(true)
}
