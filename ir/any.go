package ir

import (
	"fmt"
	"maps"
	"slices"
)

// ToAny converts a node to plain Go values: map[string]any for objects,
// []any for arrays. Object field order is lost; callers that care about
// order work on the node directly.
func ToAny(node *Node) any {
	switch node.Type {
	case ObjectType:
		n := len(node.Fields)
		res := make(map[string]any, n)
		for i := range n {
			field := node.Fields[i]
			if field.Type == NullType {
				continue
			}
			res[field.String] = ToAny(node.Values[i])
		}
		return res
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = ToAny(elt)
		}
		return res
	case StringType:
		return node.String
	case NumberType:
		if node.Int64 != nil {
			return *node.Int64
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		return node.Number
	case BoolType:
		return node.Bool
	case NullType:
		return nil
	default:
		panic("impossible production")
	}
}

// FromAny converts plain Go values to a node. Map keys are ordered
// lexicographically since Go maps carry no order of their own.
func FromAny(v any) (*Node, error) {
	switch vv := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return vv.Clone(), nil
	case bool:
		return FromBool(vv), nil
	case string:
		return FromString(vv), nil
	case int:
		return FromInt(int64(vv)), nil
	case int8:
		return FromInt(int64(vv)), nil
	case int16:
		return FromInt(int64(vv)), nil
	case int32:
		return FromInt(int64(vv)), nil
	case int64:
		return FromInt(vv), nil
	case uint:
		return FromInt(int64(vv)), nil
	case uint8:
		return FromInt(int64(vv)), nil
	case uint16:
		return FromInt(int64(vv)), nil
	case uint32:
		return FromInt(int64(vv)), nil
	case uint64:
		return FromInt(int64(vv)), nil
	case float32:
		return FromFloat(float64(vv)), nil
	case float64:
		return FromFloat(vv), nil
	case []*Node:
		res := Array()
		for _, el := range vv {
			res.Append(el.Clone())
		}
		return res, nil
	case []any:
		res := Array()
		for _, el := range vv {
			elNode, err := FromAny(el)
			if err != nil {
				return nil, err
			}
			res.Append(elNode)
		}
		return res, nil
	case map[string]*Node:
		res := Object()
		for _, key := range slices.Sorted(maps.Keys(vv)) {
			res.Set(key, vv[key].Clone())
		}
		return res, nil
	case map[string]any:
		res := Object()
		for _, key := range slices.Sorted(maps.Keys(vv)) {
			valNode, err := FromAny(vv[key])
			if err != nil {
				return nil, err
			}
			res.Set(key, valNode)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a node", v)
	}
}
