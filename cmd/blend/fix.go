package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scott-cotton/cli"

	"github.com/confblend/blend"
	"github.com/confblend/blend/doc"
)

func fix(cfg *FixConfig, cc *cli.Context, args []string) error {
	targets, err := loadStyle(cfg.MainConfig)
	if err != nil {
		return err
	}
	rep := newReporter(cc, cfg.Color)
	for _, t := range filterTargets(targets, args) {
		if err := fixOne(cfg, rep, t); err != nil {
			return err
		}
	}
	rep.summary()
	if rep.hasViolations() {
		os.Exit(1)
	}
	return nil
}

func fixOne(cfg *FixConfig, rep *reporter, t *target) error {
	d, err := doc.ForPath(t.path)
	if err != nil {
		return err
	}
	actual, err := d.AsObject()
	if errors.Is(err, fs.ErrNotExist) {
		content := render(t.path, t.expected)
		if err := writeFile(t.path, content); err != nil {
			return err
		}
		rep.violation(t.path, CodeCreateFile,
			"was not found. Created it with this content:", content, true)
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
	if err := applyComparison(d, cmp); err != nil {
		return err
	}
	content, err := d.Reformatted()
	if err != nil {
		return err
	}
	if err := writeFile(t.path, content); err != nil {
		return err
	}
	if missing := cmp.Missing(); missing != nil {
		rep.violation(t.path, CodeMissingValues,
			"had missing values:", render(t.path, missing), true)
	}
	if diff := cmp.Diff(); diff != nil {
		rep.violation(t.path, CodeDifferentValues,
			"had different values. Fixed to:", render(t.path, diff), true)
	}
	return nil
}

// writeFile writes atomically enough for config files, retrying a couple of
// times on transient errors before giving up.
func writeFile(path, content string) error {
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = os.WriteFile(path, []byte(content), 0o644)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Str("path", path).Int("attempt", attempt).Msg("write failed")
		time.Sleep(time.Duration(attempt) * 10 * time.Millisecond)
	}
	return err
}
