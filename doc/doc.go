// Package doc loads and reformats TOML, YAML and JSON documents. A document
// is built from exactly one of a file path, a raw string, or a node; parsing
// happens lazily on first access and never again after a successful load.
// Applying a change-set mutates the live document tree in place so that the
// formatting of untouched regions survives reserialization.
package doc

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/confblend/blend/ir"
)

type Format int

const (
	TOML Format = iota
	YAML
	JSON
)

func (f Format) String() string {
	s, ok := map[Format]string{
		TOML: "TOML",
		YAML: "YAML",
		JSON: "JSON",
	}[f]
	if ok {
		return s
	}
	return "<unknown format>"
}

// Doc is a lazily loaded document of one format.
type Doc interface {
	// Path returns the file path the document was built from, if any.
	Path() string
	// AsString returns the raw text the document was built from, if any.
	AsString() string
	// AsObject parses the document on first call and returns its node.
	AsObject() (*ir.Node, error)
	// Reformatted serializes the document back to canonical text.
	Reformatted() (string, error)
	// Apply writes a nested change-set into the live document tree. It
	// inserts and overwrites, never deletes.
	Apply(change *ir.Node) error
}

// DecodeError reports malformed source text for the chosen format.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ForPath returns a document for the file at path, picking the format from
// the extension.
func ForPath(path string) (Doc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLFile(path), nil
	case ".yaml", ".yml":
		return NewYAMLFile(path), nil
	case ".json":
		return NewJSONFile(path), nil
	}
	return nil, fmt.Errorf("no document format for %q", path)
}
