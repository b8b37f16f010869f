package listdiff

import (
	"strings"
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

func TestAddedOrChanged(t *testing.T) {
	tests := []struct {
		name             string
		actual, expected []any
		result           []any // nil means no additions or changes
	}{
		{"identical", []any{int64(1), int64(2)}, []any{int64(1), int64(2)}, nil},
		{"expected shorter", []any{int64(1), int64(2)}, []any{int64(1)}, nil},
		{"addition", []any{int64(1)}, []any{int64(1), int64(2)}, []any{int64(2)}},
		{"change", []any{int64(1), int64(2)}, []any{int64(1), int64(3)}, []any{int64(3)}},
		{"change and addition", []any{int64(1)}, []any{int64(2), int64(3)}, []any{int64(2), int64(3)}},
		{"scalar vs container", []any{int64(1)}, []any{[]any{int64(1)}}, []any{[]any{int64(1)}}},
		{
			"nested container difference returns whole list",
			[]any{map[string]any{"a": int64(1)}, int64(5)},
			[]any{map[string]any{"a": int64(2)}, int64(5)},
			[]any{map[string]any{"a": int64(2)}, int64(5)},
		},
		{
			"equal containers skipped",
			[]any{map[string]any{"a": int64(1)}},
			[]any{map[string]any{"a": int64(1)}},
			nil,
		},
		{"empty expected", []any{int64(1)}, []any{}, nil},
		{"empty actual", []any{}, []any{"x"}, []any{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddedOrChanged(node(t, tt.actual), node(t, tt.expected))
			if tt.result == nil {
				if got != nil {
					t.Errorf("AddedOrChanged() = %v, want nil", ir.ToAny(got))
				}
				return
			}
			want := node(t, tt.result)
			if !ir.Equal(got, want) {
				t.Errorf("AddedOrChanged() = %v, want %v", ir.ToAny(got), tt.result)
			}
		})
	}
}

func TestUnified(t *testing.T) {
	from := "a = 1\nb = 2\n"
	to := "a = 1\nb = 3\n"
	got := Unified(from, to)
	for _, want := range []string{" a = 1", "-b = 2", "+b = 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("Unified() missing %q:\n%s", want, got)
		}
	}
}

func TestUnifiedIdentical(t *testing.T) {
	got := Unified("same\n", "same\n")
	if strings.ContainsAny(got, "+-") {
		t.Errorf("identical inputs produced change lines:\n%s", got)
	}
}
