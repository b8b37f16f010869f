package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/confblend/blend"
)

type MainConfig struct {
	Style   string `cli:"name=style aliases=s desc='style file with expected values (TOML)'"`
	Verbose int    `cli:"name=v aliases=verbose desc='verbosity: 0 warnings, 1 info, 2 debug'"`
	Color   bool   `cli:"name=color desc='force colored output'"`

	UniqueKeys blend.UniqueKeys

	Main *cli.Command
}

// uniqueKeyOpt parses a -k argument of the form flatkey=[parent.]nested,
// e.g. -k repos=repo or -k repos=hooks.id.
func (cfg *MainConfig) uniqueKeyOpt(_ *cli.Context, a string) (any, error) {
	flatKey, spec, ok := strings.Cut(a, "=")
	if !ok || flatKey == "" || spec == "" {
		return nil, fmt.Errorf("%w: -k wants flatkey=[parent.]nested, got %q", cli.ErrUsage, a)
	}
	uk := blend.UniqueKey{Nested: spec}
	if i := strings.LastIndex(spec, "."); i >= 0 {
		uk = blend.UniqueKey{Parent: spec[:i], Nested: spec[i+1:]}
	}
	if cfg.UniqueKeys == nil {
		cfg.UniqueKeys = blend.UniqueKeys{}
	}
	cfg.UniqueKeys[flatKey] = uk
	return nil, nil
}

type CheckConfig struct {
	*MainConfig

	Check *cli.Command
}

type FixConfig struct {
	*MainConfig

	Fix *cli.Command
}
