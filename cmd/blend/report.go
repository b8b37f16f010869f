package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

// Violation codes, stable across releases so they can be grepped for.
const (
	CodeCreateFile      = 1
	CodeMissingValues   = 8
	CodeDifferentValues = 9
)

// reporter prints numbered violations and keeps the counts for the final
// summary and the exit code.
type reporter struct {
	out      io.Writer
	useColor bool

	fixed  int
	manual int
}

func newReporter(cc *cli.Context, forceColor bool) *reporter {
	r := &reporter{out: cc.Out, useColor: forceColor}
	if !r.useColor {
		if f, ok := cc.Out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			r.useColor = true
		}
	}
	return r
}

func (r *reporter) violation(path string, code int, message, suggestion string, fixed bool) {
	if fixed {
		r.fixed++
	} else {
		r.manual++
	}
	loc := fmt.Sprintf("%s:1:", path)
	if r.useColor {
		loc = color.New(color.FgCyan, color.Bold).Sprint(loc)
	}
	fmt.Fprintf(r.out, "%s BLD%03d %s\n", loc, code, message)
	if suggestion != "" {
		fmt.Fprint(r.out, suggestion)
		if suggestion[len(suggestion)-1] != '\n' {
			fmt.Fprintln(r.out)
		}
	}
}

func (r *reporter) diff(unified string) {
	if unified == "" {
		return
	}
	if !r.useColor {
		fmt.Fprint(r.out, unified)
		return
	}
	for _, line := range splitLines(unified) {
		switch {
		case len(line) > 0 && line[0] == '+':
			fmt.Fprintln(r.out, color.GreenString("%s", line))
		case len(line) > 0 && line[0] == '-':
			fmt.Fprintln(r.out, color.RedString("%s", line))
		default:
			fmt.Fprintln(r.out, line)
		}
	}
}

func (r *reporter) summary() {
	total := r.fixed + r.manual
	if total == 0 {
		fmt.Fprintln(r.out, "No violations found.")
		return
	}
	msg := fmt.Sprintf("Violations: %d fixed, %d to change manually.", r.fixed, r.manual)
	if r.useColor {
		msg = color.New(color.Bold).Sprint(msg)
	}
	fmt.Fprintln(r.out, msg)
}

func (r *reporter) hasViolations() bool {
	return r.fixed+r.manual > 0
}

func splitLines(s string) []string {
	var res []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			res = append(res, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		res = append(res, s[start:])
	}
	return res
}
