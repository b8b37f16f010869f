package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetGet(t *testing.T) {
	obj := Object()
	obj.Set("a", FromInt(1))
	obj.Set("b", FromString("x"))
	obj.Set("a", FromInt(2))

	if got := Get(obj, "a"); got == nil || got.Int64 == nil || *got.Int64 != 2 {
		t.Errorf("Get(a) = %v", got)
	}
	if got := Get(obj, "missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
	// overwrite keeps the field position
	if len(obj.Fields) != 2 || obj.Fields[0].String != "a" || obj.Fields[1].String != "b" {
		t.Errorf("fields = %v", obj.Fields)
	}
}

func TestAppendAndSetIndex(t *testing.T) {
	arr := Array()
	arr.Append(FromInt(1))
	arr.Append(FromInt(2))
	arr.SetIndex(0, FromString("x"))

	if len(arr.Values) != 2 {
		t.Fatalf("len = %d", len(arr.Values))
	}
	if arr.Values[0].Type != StringType || arr.Values[0].Parent != arr || arr.Values[0].ParentIndex != 0 {
		t.Errorf("SetIndex did not rewire: %+v", arr.Values[0])
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{Key: FromString("list"), Val: FromSlice([]*Node{FromInt(1)})},
		{Key: FromString("s"), Val: FromString("v")},
	})
	clone := orig.Clone()

	clone.Set("s", FromString("changed"))
	Get(clone, "list").Append(FromInt(2))

	if Get(orig, "s").String != "v" {
		t.Error("mutating the clone changed the original scalar")
	}
	if len(Get(orig, "list").Values) != 1 {
		t.Error("mutating the clone changed the original list")
	}
	if Get(clone, "list").Parent != clone {
		t.Error("clone did not rewire parents")
	}
}

func TestToAnyFromAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"s":    "str",
		"i":    int64(3),
		"f":    1.5,
		"b":    true,
		"null": nil,
		"list": []any{int64(1), "two"},
		"obj":  map[string]any{"nested": int64(9)},
	}
	n, err := FromAny(in)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, ToAny(n)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAnyIntKinds(t *testing.T) {
	for _, v := range []any{int(7), int8(7), int32(7), int64(7), uint16(7), uint64(7)} {
		n, err := FromAny(v)
		if err != nil {
			t.Fatalf("FromAny(%T): %v", v, err)
		}
		if n.Type != NumberType || n.Int64 == nil || *n.Int64 != 7 {
			t.Errorf("FromAny(%T) = %+v", v, n)
		}
	}
}

func TestFromAnyRejectsUnknown(t *testing.T) {
	if _, err := FromAny(struct{}{}); err == nil {
		t.Error("expected an error for an unsupported type")
	}
}

func TestVisit(t *testing.T) {
	root := FromKeyVals([]KeyVal{
		{Key: FromString("l"), Val: FromSlice([]*Node{FromInt(1), FromInt(2)})},
	})
	count := 0
	err := root.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			count++
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// root, the list, and its two elements
	if count != 4 {
		t.Errorf("visited %d nodes, want 4", count)
	}
}
