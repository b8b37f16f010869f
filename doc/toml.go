package doc

import (
	"fmt"
	"os"
	"sort"

	toml "github.com/pelletier/go-toml"

	"github.com/confblend/blend/debug"
	"github.com/confblend/blend/ir"
)

// TOMLDoc is a TOML document backed by a live go-toml tree, so applying
// changes touches only the keys the change-set names and the rest of the
// document keeps its formatting on reserialization.
type TOMLDoc struct {
	path string
	raw  string
	obj  *ir.Node
	tree *toml.Tree

	reformatted string
	formatted   bool
	loaded      bool
	loadErr     error
}

func NewTOMLFile(path string) *TOMLDoc {
	return &TOMLDoc{path: path}
}

func NewTOMLString(s string) *TOMLDoc {
	return &TOMLDoc{raw: s}
}

func NewTOMLObject(obj *ir.Node) *TOMLDoc {
	return &TOMLDoc{obj: obj}
}

func (d *TOMLDoc) Path() string {
	return d.path
}

func (d *TOMLDoc) AsString() string {
	return d.raw
}

func (d *TOMLDoc) load() error {
	if d.loaded {
		return d.loadErr
	}
	d.loaded = true
	if d.path != "" && d.raw == "" && d.obj == nil {
		data, err := os.ReadFile(d.path)
		if err != nil {
			d.loadErr = err
			return d.loadErr
		}
		d.raw = string(data)
	}
	if d.tree == nil && d.obj != nil {
		m, ok := ir.ToAny(d.obj).(map[string]any)
		if !ok {
			d.loadErr = &DecodeError{Format: TOML, Err: fmt.Errorf("root is not a table")}
			return d.loadErr
		}
		tree, err := toml.TreeFromMap(m)
		if err != nil {
			d.loadErr = &DecodeError{Format: TOML, Err: err}
			return d.loadErr
		}
		d.tree = tree
		return nil
	}
	if d.tree == nil {
		tree, err := toml.Load(d.raw)
		if err != nil {
			d.loadErr = &DecodeError{Format: TOML, Err: err}
			return d.loadErr
		}
		d.tree = tree
	}
	if d.obj == nil {
		d.obj = fromTOMLTree(d.tree)
	}
	return nil
}

func (d *TOMLDoc) AsObject() (*ir.Node, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	if d.obj == nil {
		d.obj = fromTOMLTree(d.tree)
	}
	return d.obj, nil
}

func (d *TOMLDoc) Reformatted() (string, error) {
	if err := d.load(); err != nil {
		return "", err
	}
	if d.formatted {
		return d.reformatted, nil
	}
	d.reformatted = d.tree.String()
	d.formatted = true
	return d.reformatted, nil
}

// Apply traverses the live TOML tree and changes values in place, keeping
// formatting and comments of everything else.
func (d *TOMLDoc) Apply(change *ir.Node) error {
	if err := d.load(); err != nil {
		return err
	}
	if change == nil || change.Type != ir.ObjectType {
		return nil
	}
	applyTOMLTree(d.tree, change)
	d.obj = fromTOMLTree(d.tree)
	d.formatted = false
	return nil
}

func applyTOMLTree(tree *toml.Tree, change *ir.Node) {
	for i, field := range change.Fields {
		key := field.String
		value := change.Values[i]
		if value.Type == ir.ObjectType {
			if sub, ok := tree.GetPath([]string{key}).(*toml.Tree); ok {
				applyTOMLTree(sub, value)
				continue
			}
			if debug.Apply() {
				debug.Logf("apply: insert table %q\n", key)
			}
		}
		tree.SetPath([]string{key}, tomlValue(value))
	}
}

func tomlValue(y *ir.Node) any {
	if y.Type != ir.ObjectType {
		return ir.ToAny(y)
	}
	m, _ := ir.ToAny(y).(map[string]any)
	sub, err := toml.TreeFromMap(m)
	if err != nil {
		return m
	}
	return sub
}

func fromTOMLTree(tree *toml.Tree) *ir.Node {
	res := ir.Object()
	keys := tree.Keys()
	sort.Slice(keys, func(i, j int) bool {
		pi := tree.GetPositionPath([]string{keys[i]})
		pj := tree.GetPositionPath([]string{keys[j]})
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Col < pj.Col
	})
	for _, key := range keys {
		res.Set(key, fromTOMLValue(tree.GetPath([]string{key})))
	}
	return res
}

func fromTOMLValue(v any) *ir.Node {
	switch vv := v.(type) {
	case *toml.Tree:
		return fromTOMLTree(vv)
	case []*toml.Tree:
		res := ir.Array()
		for _, sub := range vv {
			res.Append(fromTOMLTree(sub))
		}
		return res
	case []any:
		res := ir.Array()
		for _, el := range vv {
			res.Append(fromTOMLValue(el))
		}
		return res
	default:
		node, err := ir.FromAny(v)
		if err != nil {
			// dates and times keep their text form
			return ir.FromString(fmt.Sprintf("%v", v))
		}
		return node
	}
}
