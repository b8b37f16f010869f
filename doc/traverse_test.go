package doc

import (
	"testing"

	"github.com/confblend/blend/ir"
)

func node(t *testing.T, v any) *ir.Node {
	t.Helper()
	n, err := ir.FromAny(v)
	if err != nil {
		t.Fatalf("FromAny(%v): %v", v, err)
	}
	return n
}

func TestTraverse(t *testing.T) {
	tests := []struct {
		name                   string
		target, change, result map[string]any
	}{
		{
			name:   "insert absent key",
			target: map[string]any{"a": int64(1)},
			change: map[string]any{"b": int64(2)},
			result: map[string]any{"a": int64(1), "b": int64(2)},
		},
		{
			name:   "overwrite scalar",
			target: map[string]any{"a": int64(1)},
			change: map[string]any{"a": int64(2)},
			result: map[string]any{"a": int64(2)},
		},
		{
			name:   "recurse into mapping",
			target: map[string]any{"m": map[string]any{"keep": int64(1), "x": int64(2)}},
			change: map[string]any{"m": map[string]any{"x": int64(3)}},
			result: map[string]any{"m": map[string]any{"keep": int64(1), "x": int64(3)}},
		},
		{
			name:   "mapping over scalar replaces",
			target: map[string]any{"m": int64(1)},
			change: map[string]any{"m": map[string]any{"x": int64(2)}},
			result: map[string]any{"m": map[string]any{"x": int64(2)}},
		},
		{
			name:   "list merges index-wise",
			target: map[string]any{"l": []any{int64(1), int64(2)}},
			change: map[string]any{"l": []any{int64(9)}},
			result: map[string]any{"l": []any{int64(9), int64(2)}},
		},
		{
			name:   "list appends past the end",
			target: map[string]any{"l": []any{int64(1)}},
			change: map[string]any{"l": []any{int64(1), int64(2), int64(3)}},
			result: map[string]any{"l": []any{int64(1), int64(2), int64(3)}},
		},
		{
			name:   "list of mappings recurses",
			target: map[string]any{"l": []any{map[string]any{"keep": int64(1)}}},
			change: map[string]any{"l": []any{map[string]any{"add": int64(2)}}},
			result: map[string]any{"l": []any{map[string]any{"keep": int64(1), "add": int64(2)}}},
		},
		{
			name:   "structured change over scalar element",
			target: map[string]any{"l": []any{int64(1)}},
			change: map[string]any{"l": []any{map[string]any{"a": int64(2)}}},
			result: map[string]any{"l": []any{map[string]any{"a": int64(2)}}},
		},
		{
			name:   "never deletes",
			target: map[string]any{"a": int64(1), "b": int64(2)},
			change: map[string]any{},
			result: map[string]any{"a": int64(1), "b": int64(2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := node(t, tt.target)
			Traverse(target, node(t, tt.change))
			want := node(t, tt.result)
			if !ir.Equal(target, want) {
				t.Errorf("Traverse() left %v, want %v", ir.ToAny(target), tt.result)
			}
		})
	}
}

func TestTraverseInsertsAtEnd(t *testing.T) {
	target := node(t, map[string]any{"z": int64(1)})
	Traverse(target, node(t, map[string]any{"a": int64(2)}))
	if target.Fields[len(target.Fields)-1].String != "a" {
		t.Errorf("new key not appended at the end: %v", target.Fields)
	}
}

func TestTraverseIdempotent(t *testing.T) {
	target := node(t, map[string]any{"a": int64(1), "l": []any{int64(1)}})
	change := node(t, map[string]any{"a": int64(2), "l": []any{int64(1), int64(2)}, "new": "x"})

	Traverse(target, change)
	once := target.Clone()
	Traverse(target, change)
	if !ir.Equal(target, once) {
		t.Errorf("second application changed the tree: %v vs %v", ir.ToAny(target), ir.ToAny(once))
	}
}
