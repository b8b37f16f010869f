package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "k",
		Description: "unique key for a list: flatkey=[parent.]nested (repeatable)",
		Type:        cli.NamedFuncOpt(cfg.uniqueKeyOpt, "(flatkey=[parent.]nested)"),
	})

	return cli.NewCommandAt(&cfg.Main, "blend").
		WithSynopsis("blend -style <file> [opts] command [files]").
		WithDescription("blend enforces expected configuration values across TOML, YAML and JSON files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return blendMain(cfg, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			FixCommand(cfg))
}

func blendMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	setupLogging(cfg.Verbose)
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("check").
		WithAliases("c").
		WithSynopsis("check [files]").
		WithDescription("report expected values absent from the files, without modifying them").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
	cfg.Check = cmd
	return cmd
}

func FixCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FixConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("fix").
		WithAliases("f").
		WithSynopsis("fix [files]").
		WithDescription("write expected values into the files, modifying them directly").
		WithRun(func(cc *cli.Context, args []string) error {
			return fix(cfg, cc, args)
		})
	cfg.Fix = cmd
	return cmd
}
