// Package query evaluates a small JMESPath-style path language over nodes:
//
//	name                plain field lookup
//	a.b.c               nested lookup
//	[].name             flatten-projection over an array
//	hooks[].id          projection through a field
//	hooks[?id=='x']     filter; the bracket body is an expr-lang expression
//	                    evaluated with the element's fields as environment
//
// A search that matches nothing yields nil, never an error.
package query

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type Query struct {
	src   string
	steps []*step
}

type step struct {
	field     string
	project   bool
	filter    *vm.Program
	filterSrc string
}

func (q *Query) String() string {
	return q.src
}

func Compile(src string) (*Query, error) {
	if src == "" {
		return nil, fmt.Errorf("empty query")
	}
	q := &Query{src: src}
	rest := src
	for rest != "" {
		st := &step{}
		i := strings.IndexAny(rest, ".[")
		switch {
		case i == -1:
			st.field = rest
			rest = ""
		case rest[i] == '.':
			if i == 0 {
				return nil, fmt.Errorf("query %q: unexpected '.'", src)
			}
			st.field = rest[:i]
			rest = rest[i+1:]
			if rest == "" {
				return nil, fmt.Errorf("query %q: trailing '.'", src)
			}
		default: // '['
			st.field = rest[:i]
			var err error
			rest, err = parseBracket(src, rest[i+1:], st)
			if err != nil {
				return nil, err
			}
		}
		q.steps = append(q.steps, st)
	}
	return q, nil
}

func MustCompile(src string) *Query {
	q, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return q
}

// parseBracket consumes a bracket expression; rest starts just after '['.
func parseBracket(src, rest string, st *step) (string, error) {
	if rest == "" {
		return "", fmt.Errorf("query %q: unterminated '['", src)
	}
	if rest[0] == ']' {
		st.project = true
		return afterBracket(src, rest[1:])
	}
	if rest[0] != '?' {
		return "", fmt.Errorf("query %q: expected ']' or '?' after '['", src)
	}
	end := closingBracket(rest[1:])
	if end == -1 {
		return "", fmt.Errorf("query %q: unterminated filter", src)
	}
	st.filterSrc = rest[1 : 1+end]
	prg, err := expr.Compile(st.filterSrc, expr.AllowUndefinedVariables())
	if err != nil {
		return "", fmt.Errorf("query %q: bad filter %q: %w", src, st.filterSrc, err)
	}
	st.filter = prg
	return afterBracket(src, rest[2+end:])
}

func afterBracket(src, rest string) (string, error) {
	if rest == "" {
		return "", nil
	}
	if rest[0] != '.' {
		return "", fmt.Errorf("query %q: expected '.' after ']'", src)
	}
	if len(rest) == 1 {
		return "", fmt.Errorf("query %q: trailing '.'", src)
	}
	return rest[1:], nil
}

// closingBracket finds the index of the ']' ending a filter body, skipping
// over single-quoted runs.
func closingBracket(s string) int {
	quoted := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '\'':
			quoted = !quoted
		case c == ']' && !quoted:
			return i
		}
	}
	return -1
}
