package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/scott-cotton/cli"

	"github.com/confblend/blend"
	"github.com/confblend/blend/doc"
	"github.com/confblend/blend/listdiff"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	targets, err := loadStyle(cfg.MainConfig)
	if err != nil {
		return err
	}
	rep := newReporter(cc, cfg.Color)
	for _, t := range filterTargets(targets, args) {
		if err := checkOne(cfg, rep, t); err != nil {
			return err
		}
	}
	rep.summary()
	if rep.hasViolations() {
		os.Exit(1)
	}
	return nil
}

func checkOne(cfg *CheckConfig, rep *reporter, t *target) error {
	d, err := doc.ForPath(t.path)
	if err != nil {
		return err
	}
	actual, err := d.AsObject()
	if errors.Is(err, fs.ErrNotExist) {
		rep.violation(t.path, CodeCreateFile,
			"was not found. Create it with this content:",
			render(t.path, t.expected), false)
		return nil
	}
	if err != nil {
		return err
	}
	cmp, err := blend.Compare(actual, t.expected, cfg.UniqueKeys)
	if err != nil {
		return err
	}
	if !cmp.HasChanges() {
		log.Debug().Str("path", t.path).Msg("no changes")
		return nil
	}
	if missing := cmp.Missing(); missing != nil {
		rep.violation(t.path, CodeMissingValues,
			"has missing values:", render(t.path, missing), false)
	}
	if diff := cmp.Diff(); diff != nil {
		rep.violation(t.path, CodeDifferentValues,
			"has different values. Use this instead:", render(t.path, diff), false)
	}
	rep.diff(wouldChange(d, t.path, cmp))
	return nil
}

// wouldChange renders the unified diff between the document as it stands and
// the document with the comparison applied. Both sides are reformatted so the
// diff shows value changes, not formatting ones.
func wouldChange(d doc.Doc, path string, cmp *blend.Comparison) string {
	before, err := d.Reformatted()
	if err != nil {
		return ""
	}
	actual, err := d.AsObject()
	if err != nil {
		return ""
	}
	fixed, err := docForObject(path, actual.Clone())
	if err != nil {
		return ""
	}
	if err := applyComparison(fixed, cmp); err != nil {
		return ""
	}
	after, err := fixed.Reformatted()
	if err != nil {
		return ""
	}
	return listdiff.Unified(before, after)
}

// applyComparison writes all three buckets, the merged lists last so they
// override any positional merge of the same keys.
func applyComparison(d doc.Doc, cmp *blend.Comparison) error {
	if missing := cmp.Missing(); missing != nil {
		if err := d.Apply(missing); err != nil {
			return err
		}
	}
	if diff := cmp.Diff(); diff != nil {
		if err := d.Apply(diff); err != nil {
			return err
		}
	}
	if replace := cmp.Replace(); replace != nil {
		if err := d.Apply(replace); err != nil {
			return err
		}
	}
	return nil
}
