package query

import (
	"github.com/expr-lang/expr/vm"

	"github.com/confblend/blend/debug"
	"github.com/confblend/blend/ir"
)

// Search evaluates the query against a node. Projections and filters yield
// array nodes (possibly empty); a path that resolves nothing yields nil.
func (q *Query) Search(y *ir.Node) *ir.Node {
	res := walk(y, q.steps)
	if debug.Query() {
		debug.Logf("query %q at %s -> %v\n", q.src, y.Path(), res != nil)
	}
	return res
}

// Search compiles and evaluates expression src against a node.
func Search(src string, y *ir.Node) (*ir.Node, error) {
	q, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return q.Search(y), nil
}

func walk(y *ir.Node, steps []*step) *ir.Node {
	if y == nil {
		return nil
	}
	if len(steps) == 0 {
		return y.Clone()
	}
	st := steps[0]
	base := y
	if st.field != "" {
		if y.Type != ir.ObjectType {
			return nil
		}
		if base = ir.Get(y, st.field); base == nil {
			return nil
		}
	}
	switch {
	case st.project:
		return project(base, steps[1:])
	case st.filter != nil:
		if base.Type != ir.ArrayType {
			return nil
		}
		kept := ir.Array()
		for _, el := range base.Values {
			if evalFilter(st.filter, el) {
				kept.Append(el.Clone())
			}
		}
		if len(steps) == 1 {
			return kept
		}
		return project(kept, steps[1:])
	default:
		return walk(base, steps[1:])
	}
}

// project applies the remaining steps to each element of an array,
// flattening one level of nested arrays, the way a JMESPath []
// projection does.
func project(base *ir.Node, rest []*step) *ir.Node {
	if base.Type != ir.ArrayType {
		return nil
	}
	out := ir.Array()
	for _, el := range base.Values {
		r := walk(el, rest)
		if r == nil || r.Type == ir.NullType {
			continue
		}
		if r.Type == ir.ArrayType {
			for _, v := range r.Values {
				out.Append(v.Clone())
			}
			continue
		}
		out.Append(r)
	}
	return out
}

func evalFilter(prg *vm.Program, el *ir.Node) bool {
	if el.Type != ir.ObjectType {
		return false
	}
	env, ok := ir.ToAny(el).(map[string]any)
	if !ok {
		return false
	}
	res, err := vm.Run(prg, env)
	if err != nil {
		return false
	}
	b, ok := res.(bool)
	return ok && b
}
