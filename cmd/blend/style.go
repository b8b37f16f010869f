package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/confblend/blend/doc"
	"github.com/confblend/blend/ir"
)

// target pairs a file path with the expected values the style holds for it.
type target struct {
	path     string
	expected *ir.Node
}

// loadStyle reads the style file: a TOML document whose top-level tables are
// keyed by the path of the file they apply to.
func loadStyle(cfg *MainConfig) ([]*target, error) {
	if cfg.Style == "" {
		return nil, fmt.Errorf("%w: -style is required", cli.ErrUsage)
	}
	obj, err := doc.NewTOMLFile(cfg.Style).AsObject()
	if err != nil {
		return nil, fmt.Errorf("loading style %s: %w", cfg.Style, err)
	}
	var res []*target
	for i, field := range obj.Fields {
		v := obj.Values[i]
		if v.Type != ir.ObjectType {
			return nil, fmt.Errorf("style %s: %q is not a table", cfg.Style, field.String)
		}
		res = append(res, &target{path: field.String, expected: v})
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("style %s names no files", cfg.Style)
	}
	return res, nil
}

// filterTargets keeps the targets whose path contains one of the partial
// names. Empty names keep everything.
func filterTargets(targets []*target, names []string) []*target {
	if len(names) == 0 {
		return targets
	}
	var res []*target
	for _, t := range targets {
		for _, name := range names {
			if strings.Contains(t.path, name) {
				res = append(res, t)
				break
			}
		}
	}
	return res
}

// docForObject builds a document of path's format around a node.
func docForObject(path string, obj *ir.Node) (doc.Doc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return doc.NewTOMLObject(obj), nil
	case ".yaml", ".yml":
		return doc.NewYAMLObject(obj), nil
	case ".json":
		return doc.NewJSONObject(obj), nil
	}
	return nil, fmt.Errorf("no document format for %q", path)
}

// render serializes a node the way path's format would.
func render(path string, obj *ir.Node) string {
	d, err := docForObject(path, obj)
	if err != nil {
		return ""
	}
	s, err := d.Reformatted()
	if err != nil {
		return ""
	}
	return s
}
