// Package blend merges and compares structured documents. Documents are
// flattened into a single mapping keyed by encoded paths, blended with
// deterministic conflict rules, and compared into three buckets: missing,
// diff, and replace.
//
// # Usage
//
//	merged := blend.NewBlender().Add(a).Add(b).Mix(true)
//
//	cmp, err := blend.Compare(actual, expected, uniqueKeys)
//	if cmp.HasChanges() { ... }
//
// # Related Packages
//
//   - github.com/confblend/blend/ir - node representation
//   - github.com/confblend/blend/doc - document adapters and tree writer
package blend

import (
	"strings"

	"github.com/confblend/blend/ir"
)

const (
	// SeparatorFlatten is the separator for flatten and unflatten keys,
	// chosen to avoid collision with key content (the default dot can be
	// part of a TOML key).
	SeparatorFlatten = "$#@"

	// Dot is the separator used when flattening documents for comparison.
	Dot = "."
)

// FlattenPath joins path segments into a flat key. A segment containing the
// separator is wrapped in double quotes so SplitKey can restore it.
func FlattenPath(segments []string, sep string) string {
	quoted := make([]string, len(segments))
	for i, seg := range segments {
		if strings.Contains(seg, sep) {
			seg = `"` + seg + `"`
		}
		quoted[i] = seg
	}
	return strings.Join(quoted, sep)
}

// SplitKey splits a flat key by the separator, keeping quoted runs (single
// or double quotes) together even when they contain the separator. A key
// with no quote characters takes the plain-split fast path.
func SplitKey(key, sep string) []string {
	if !strings.ContainsAny(key, `'"`) {
		return strings.Split(key, sep)
	}
	var parts []string
	var buf strings.Builder
	for i := 0; i < len(key); {
		c := key[i]
		if c == '\'' || c == '"' {
			j := strings.IndexAny(key[i+1:], `'"`)
			if j == -1 {
				// unterminated quote: keep it literally
				buf.WriteByte(c)
				i++
				continue
			}
			buf.WriteString(key[i+1 : i+1+j])
			i += j + 2
			continue
		}
		if strings.HasPrefix(key[i:], sep) {
			parts = append(parts, buf.String())
			buf.Reset()
			i += len(sep)
			continue
		}
		buf.WriteByte(c)
		i++
	}
	return append(parts, buf.String())
}

// MixAll blends documents in order and returns the nested result with keys
// sorted.
func MixAll(docs ...*ir.Node) *ir.Node {
	b := NewBlender()
	for _, doc := range docs {
		b.Add(doc)
	}
	return b.Mix(true)
}
