package listdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Unified renders a line-based text diff between two document renderings,
// with "-"/"+" prefixes on removed and added lines.
func Unified(from, to string) string {
	diffCfg := diffpatch.New()
	c1, c2, lines := diffCfg.DiffLinesToChars(from, to)
	diffs := diffCfg.DiffMain(c1, c2, false)
	diffs = diffCfg.DiffCharsToLines(diffs, lines)

	var buf strings.Builder
	for i := range diffs {
		diff := &diffs[i]
		prefix := " "
		switch diff.Type {
		case diffpatch.DiffDelete:
			prefix = "-"
		case diffpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitKeepNonEmpty(diff.Text) {
			buf.WriteString(prefix)
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

func splitKeepNonEmpty(text string) []string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}
