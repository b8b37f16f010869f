package query

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

func testDoc(t *testing.T) *ir.Node {
	return node(t, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": int64(1)}},
		"hooks": []any{
			map[string]any{"id": "black", "n": int64(1)},
			map[string]any{"id": "isort"},
		},
		"repos": []any{
			map[string]any{"hooks": []any{
				map[string]any{"id": "h1"},
				map[string]any{"id": "h2"},
			}},
			map[string]any{"hooks": []any{
				map[string]any{"id": "h3"},
			}},
		},
	})
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected any // nil means the search resolves nothing
	}{
		{"field", "a", map[string]any{"b": map[string]any{"c": int64(1)}}},
		{"nested path", "a.b.c", int64(1)},
		{"missing field", "nope", nil},
		{"missing nested", "a.b.zzz", nil},
		{"path through scalar", "a.b.c.d", nil},
		{"projection", "hooks[].id", []any{"black", "isort"}},
		{"projection flattens", "repos[].hooks[].id", []any{"h1", "h2", "h3"}},
		{"filter", "hooks[?id=='black']", []any{map[string]any{"id": "black", "n": int64(1)}}},
		{"filter no match", "hooks[?id=='nope']", []any{}},
		{"filter then path", "hooks[?id=='black'].n", []any{int64(1)}},
		{"filter on number", "hooks[?n==1].id", []any{"black"}},
	}
	doc := testDoc(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Search(tt.src, doc)
			if err != nil {
				t.Fatal(err)
			}
			if tt.expected == nil {
				if got != nil {
					t.Errorf("Search(%q) = %v, want nil", tt.src, ir.ToAny(got))
				}
				return
			}
			want := node(t, tt.expected)
			if !ir.Equal(got, want) {
				t.Errorf("Search(%q) = %v, want %v", tt.src, ir.ToAny(got), tt.expected)
			}
		})
	}
}

func TestSearchOverArrayRoot(t *testing.T) {
	list := node(t, []any{
		map[string]any{"id": "x"},
		map[string]any{"id": "y"},
		map[string]any{"other": int64(1)},
	})
	got, err := Search("[].id", list)
	if err != nil {
		t.Fatal(err)
	}
	want := node(t, []any{"x", "y"})
	if !ir.Equal(got, want) {
		t.Errorf("got %v, want %v", ir.ToAny(got), ir.ToAny(want))
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"leading dot", ".a"},
		{"trailing dot", "a."},
		{"unterminated bracket", "a["},
		{"unterminated filter", "a[?id=='x'"},
		{"bad bracket body", "a[3]"},
		{"no dot after bracket", "a[]b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.src); err == nil {
				t.Errorf("Compile(%q) succeeded, want error", tt.src)
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on a bad query")
		}
	}()
	MustCompile("[")
}
