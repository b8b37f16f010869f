package doc

import (
	"encoding/json"
	"os"

	jsonpatch "github.com/evanphx/json-patch"
	yaml "github.com/goccy/go-yaml"

	"github.com/confblend/blend/ir"
)

// JSONDoc is a JSON document. Reformatting is canonical: two-space indent,
// keys sorted, trailing newline. Applying a change-set goes through an RFC
// 7386 merge patch, so a null in the change-set removes the key; change-sets
// produced by comparison never contain nulls.
type JSONDoc struct {
	path string
	raw  string
	obj  *ir.Node

	reformatted string
	formatted   bool
	loaded      bool
	loadErr     error
}

func NewJSONFile(path string) *JSONDoc {
	return &JSONDoc{path: path}
}

func NewJSONString(s string) *JSONDoc {
	return &JSONDoc{raw: s}
}

func NewJSONObject(obj *ir.Node) *JSONDoc {
	return &JSONDoc{obj: obj}
}

func (d *JSONDoc) Path() string {
	return d.path
}

func (d *JSONDoc) AsString() string {
	return d.raw
}

func (d *JSONDoc) load() error {
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
	if d.obj == nil {
		obj, err := parseJSON([]byte(d.raw))
		if err != nil {
			d.loadErr = err
			return d.loadErr
		}
		d.obj = obj
	}
	return nil
}

// parseJSON validates with the standard decoder for its error positions,
// then decodes ordered. JSON being a YAML subset, the YAML ordered decoder
// keeps key order the standard library would drop.
func parseJSON(data []byte) (*ir.Node, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &DecodeError{Format: JSON, Err: err}
	}
	var ms yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &ms, yaml.UseOrderedMap()); err != nil {
		return nil, &DecodeError{Format: JSON, Err: err}
	}
	obj, err := fromYAMLValue(ms)
	if err != nil {
		return nil, &DecodeError{Format: JSON, Err: err}
	}
	return obj, nil
}

func (d *JSONDoc) AsObject() (*ir.Node, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	return d.obj, nil
}

func (d *JSONDoc) Reformatted() (string, error) {
	if err := d.load(); err != nil {
		return "", err
	}
	if d.formatted {
		return d.reformatted, nil
	}
	data, err := json.MarshalIndent(ir.ToAny(d.obj), "", "  ")
	if err != nil {
		return "", err
	}
	d.reformatted = string(data) + "\n"
	d.formatted = true
	return d.reformatted, nil
}

func (d *JSONDoc) Apply(change *ir.Node) error {
	if err := d.load(); err != nil {
		return err
	}
	if change == nil {
		return nil
	}
	docData, err := json.Marshal(ir.ToAny(d.obj))
	if err != nil {
		return err
	}
	changeData, err := json.Marshal(ir.ToAny(change))
	if err != nil {
		return err
	}
	mergedData, err := jsonpatch.MergePatch(docData, changeData)
	if err != nil {
		return err
	}
	obj, err := parseJSON(mergedData)
	if err != nil {
		return err
	}
	d.obj = obj
	d.formatted = false
	return nil
}
