package doc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confblend/blend/ir"
)

func TestTOMLAsObject(t *testing.T) {
	src := "top = 1\n\n[table]\nkey = \"value\"\nnums = [1, 2]\n"
	d := NewTOMLString(src)
	obj, err := d.AsObject()
	require.NoError(t, err)

	want := node(t, map[string]any{
		"top": int64(1),
		"table": map[string]any{
			"key":  "value",
			"nums": []any{int64(1), int64(2)},
		},
	})
	assert.True(t, ir.Equal(obj, want), "got %v", ir.ToAny(obj))
	// source order, not alphabetical
	assert.Equal(t, "top", obj.Fields[0].String)
	assert.Equal(t, "table", obj.Fields[1].String)
}

func TestTOMLArrayOfTables(t *testing.T) {
	src := "[[repos]]\nrepo = \"r1\"\n\n[[repos]]\nrepo = \"r2\"\n"
	obj, err := NewTOMLString(src).AsObject()
	require.NoError(t, err)
	want := node(t, map[string]any{
		"repos": []any{
			map[string]any{"repo": "r1"},
			map[string]any{"repo": "r2"},
		},
	})
	assert.True(t, ir.Equal(obj, want), "got %v", ir.ToAny(obj))
}

func TestTOMLApply(t *testing.T) {
	d := NewTOMLString("[tool]\nexisting = 1\n")
	change := node(t, map[string]any{"tool": map[string]any{"added": "yes"}})
	require.NoError(t, d.Apply(change))

	obj, err := d.AsObject()
	require.NoError(t, err)
	want := node(t, map[string]any{
		"tool": map[string]any{"existing": int64(1), "added": "yes"},
	})
	assert.True(t, ir.Equal(obj, want), "got %v", ir.ToAny(obj))

	out, err := d.Reformatted()
	require.NoError(t, err)
	assert.Contains(t, out, "existing = 1")
	assert.Contains(t, out, `added = "yes"`)
}

func TestTOMLApplyOverwritesScalar(t *testing.T) {
	d := NewTOMLString("v = 1\n")
	require.NoError(t, d.Apply(node(t, map[string]any{"v": int64(2)})))
	out, err := d.Reformatted()
	require.NoError(t, err)
	assert.Contains(t, out, "v = 2")
	assert.False(t, strings.Contains(out, "v = 1"))
}

func TestTOMLApplyInsertsTable(t *testing.T) {
	d := NewTOMLString("a = 1\n")
	require.NoError(t, d.Apply(node(t, map[string]any{
		"section": map[string]any{"k": "v"},
	})))
	obj, err := d.AsObject()
	require.NoError(t, err)
	sec := ir.Get(obj, "section")
	require.NotNil(t, sec)
	assert.True(t, ir.Equal(sec, node(t, map[string]any{"k": "v"})))
}

func TestTOMLDecodeError(t *testing.T) {
	_, err := NewTOMLString("not valid = = toml").AsObject()
	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, TOML, decErr.Format)
}

func TestTOMLFromObject(t *testing.T) {
	d := NewTOMLObject(node(t, map[string]any{
		"name": "blend",
		"deps": map[string]any{"count": int64(3)},
	}))
	out, err := d.Reformatted()
	require.NoError(t, err)
	assert.Contains(t, out, `name = "blend"`)
	assert.Contains(t, out, "count = 3")
}
