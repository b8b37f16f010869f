package blend

import (
	"slices"
	"strings"

	"github.com/confblend/blend/ir"
)

// Blender accumulates documents into one flat mapping: keep adding and mix
// them all at the end. On a key collision the new value replaces the old,
// except sequences under the extend-lists policy, which append to the list
// accumulated so far for that key.
type Blender struct {
	flat  map[string]*ir.Node
	keys  []string
	lists map[string][]*ir.Node

	extendLists  bool
	separator    string
	flattenOnAdd bool
}

type BlenderOpt func(*Blender)

// ExtendLists controls whether sequences sharing a key extend the
// accumulated list (true, the default) or replace it.
func ExtendLists(v bool) BlenderOpt {
	return func(b *Blender) { b.extendLists = v }
}

// Separator sets the separator for flatten and unflatten keys.
func Separator(sep string) BlenderOpt {
	return func(b *Blender) { b.separator = sep }
}

// FlattenOnAdd controls whether added documents are flattened (true, the
// default) or taken as-is, their top-level fields already being flat keys.
func FlattenOnAdd(v bool) BlenderOpt {
	return func(b *Blender) { b.flattenOnAdd = v }
}

func NewBlender(opts ...BlenderOpt) *Blender {
	b := &Blender{
		flat:         map[string]*ir.Node{},
		lists:        map[string][]*ir.Node{},
		extendLists:  true,
		separator:    SeparatorFlatten,
		flattenOnAdd: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add merges another document into the current state. The document must be
// an object node; rejecting other roots is the caller's job.
func (b *Blender) Add(doc *ir.Node) *Blender {
	if doc == nil || doc.Type != ir.ObjectType {
		return b
	}
	if b.flattenOnAdd {
		b.flatten(doc, "")
		return b
	}
	for i, field := range doc.Fields {
		b.set(field.String, doc.Values[i].Clone())
	}
	return b
}

// AddFlat merges entries that are already flat. Keys are taken in sorted
// order so the result does not depend on map iteration.
func (b *Blender) AddFlat(flat map[string]*ir.Node) *Blender {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.set(k, flat[k].Clone())
	}
	return b
}

func (b *Blender) set(key string, v *ir.Node) {
	if _, ok := b.flat[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.flat[key] = v
}

func (b *Blender) flatten(doc *ir.Node, parentKey string) {
	for i, field := range doc.Fields {
		key := field.String
		if strings.Contains(key, b.separator) {
			key = `"` + key + `"`
		}
		if parentKey != "" {
			key = parentKey + b.separator + key
		}
		value := doc.Values[i]
		switch {
		case value.Type == ir.ObjectType:
			b.flatten(value, key)
		case value.Type == ir.ArrayType && b.extendLists:
			list := b.lists[key]
			for _, el := range value.Values {
				list = append(list, el.Clone())
			}
			b.lists[key] = list
			b.set(key, ir.FromSlice(slices.Clone(list)))
		default:
			b.set(key, value.Clone())
		}
	}
}

// Flat returns the current flat mapping.
func (b *Blender) Flat() map[string]*ir.Node {
	return b.flat
}

// Keys returns the flat keys in insertion order.
func (b *Blender) Keys() []string {
	return b.keys
}

// Mix unflattens the current state into nested form. When sort is true the
// keys are processed in lexicographic order, making the output deterministic
// regardless of insertion order.
func (b *Blender) Mix(sort bool) *ir.Node {
	keys := b.keys
	if sort {
		keys = slices.Clone(b.keys)
		slices.Sort(keys)
	}
	root := ir.Object()
	for _, key := range keys {
		segs := SplitKey(key, b.separator)
		cur := root
		for _, seg := range segs[:len(segs)-1] {
			next := ir.Get(cur, seg)
			if next == nil || next.Type != ir.ObjectType {
				next = ir.Object()
				cur.Set(seg, next)
			}
			cur = next
		}
		cur.Set(segs[len(segs)-1], b.flat[key].Clone())
	}
	return root
}
