package doc

import (
	"fmt"
	"os"
	"slices"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"github.com/confblend/blend/ir"
)

// YAMLDoc is a YAML document. Mapping order is kept through an ordered-map
// decode and comments are captured per path, so a load/apply/reformat round
// trip leaves untouched regions alone.
type YAMLDoc struct {
	path string
	raw  string
	obj  *ir.Node

	comments    yaml.CommentMap
	reformatted string
	formatted   bool
	loaded      bool
	loadErr     error
}

func NewYAMLFile(path string) *YAMLDoc {
	return &YAMLDoc{path: path}
}

func NewYAMLString(s string) *YAMLDoc {
	return &YAMLDoc{raw: s}
}

func NewYAMLObject(obj *ir.Node) *YAMLDoc {
	return &YAMLDoc{obj: obj}
}

func (d *YAMLDoc) Path() string {
	return d.path
}

func (d *YAMLDoc) AsString() string {
	return d.raw
}

func (d *YAMLDoc) load() error {
	if d.loaded {
		return d.loadErr
	}
	d.loaded = true
	if d.comments == nil {
		d.comments = yaml.CommentMap{}
	}
	if d.path != "" && d.raw == "" && d.obj == nil {
		data, err := os.ReadFile(d.path)
		if err != nil {
			d.loadErr = err
			return d.loadErr
		}
		d.raw = string(data)
	}
	if d.obj == nil {
		var ms yaml.MapSlice
		if strings.TrimSpace(d.raw) != "" {
			if err := yaml.UnmarshalWithOptions(
				[]byte(d.raw), &ms,
				yaml.UseOrderedMap(), yaml.CommentToMap(d.comments),
			); err != nil {
				d.loadErr = &DecodeError{Format: YAML, Err: err}
				return d.loadErr
			}
		}
		obj, err := fromYAMLValue(ms)
		if err != nil {
			d.loadErr = &DecodeError{Format: YAML, Err: err}
			return d.loadErr
		}
		d.obj = obj
	}
	return nil
}

func (d *YAMLDoc) AsObject() (*ir.Node, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	return d.obj, nil
}

func (d *YAMLDoc) Reformatted() (string, error) {
	if err := d.load(); err != nil {
		return "", err
	}
	if d.formatted {
		return d.reformatted, nil
	}
	opts := []yaml.EncodeOption{
		yaml.Indent(2),
		yaml.IndentSequence(true),
	}
	if len(d.comments) > 0 {
		opts = append(opts, yaml.WithComment(d.comments))
	}
	data, err := yaml.MarshalWithOptions(toYAMLValue(d.obj), opts...)
	if err != nil {
		return "", fmt.Errorf("reformatting YAML: %w", err)
	}
	d.reformatted = string(data)
	d.formatted = true
	return d.reformatted, nil
}

func (d *YAMLDoc) Apply(change *ir.Node) error {
	if err := d.load(); err != nil {
		return err
	}
	Traverse(d.obj, change)
	d.formatted = false
	return nil
}

func toYAMLValue(y *ir.Node) any {
	switch y.Type {
	case ir.ObjectType:
		ms := make(yaml.MapSlice, len(y.Fields))
		for i, field := range y.Fields {
			ms[i] = yaml.MapItem{Key: field.String, Value: toYAMLValue(y.Values[i])}
		}
		return ms
	case ir.ArrayType:
		res := make([]any, len(y.Values))
		for i, el := range y.Values {
			res[i] = toYAMLValue(el)
		}
		return res
	default:
		return ir.ToAny(y)
	}
}

func fromYAMLValue(v any) (*ir.Node, error) {
	switch vv := v.(type) {
	case yaml.MapSlice:
		res := ir.Object()
		for _, item := range vv {
			valNode, err := fromYAMLValue(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(yamlKey(item.Key), valNode)
		}
		return res, nil
	case map[string]any:
		res := ir.Object()
		for _, key := range sortedKeys(vv) {
			valNode, err := fromYAMLValue(vv[key])
			if err != nil {
				return nil, err
			}
			res.Set(key, valNode)
		}
		return res, nil
	case []any:
		res := ir.Array()
		for _, el := range vv {
			elNode, err := fromYAMLValue(el)
			if err != nil {
				return nil, err
			}
			res.Append(elNode)
		}
		return res, nil
	default:
		node, err := ir.FromAny(v)
		if err != nil {
			// timestamps and other exotic scalars keep their text form
			return ir.FromString(fmt.Sprintf("%v", v)), nil
		}
		return node, nil
	}
}

func yamlKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
