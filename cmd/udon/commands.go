package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: text/t, json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "udon").
		WithSynopsis("udon [opts] command [opts]").
		WithDescription("udon parses UDON documents into event streams.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return udonMain(cfg, cc, args)
		}).
		WithSubs(
			EventsCommand(cfg),
			CheckCommand(cfg),
			DiffCommand(cfg))
}

func EventsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EventsConfig{MainConfig: mainCfg, Env: map[string]any{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "e",
			Description: "set a variable for -where; the value is parsed as YAML",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(envOptTypeFunc(cfg.Env)), "(key=val)"),
		})

	cmd := cli.NewCommand("events").
		WithAliases("ev", "e").
		WithSynopsis("events [-where expr] [-e key=val]... [-chunk n] [files]").
		WithDescription(eventsDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return events(cfg, cc, args)
		})
	cfg.Events = cmd
	return cmd
}

const eventsDescription = `events prints the event stream of UDON documents.

Each event is printed on its own line in text format, as a JSON object per
line with -j, or as a YAML sequence item with -y.

Filtering

-where takes an expr expression evaluated for every event. The fields of
the event's wire form are variables, with content fields as strings. kind
is the event type and event is the whole wire map:

  udon events -where 'kind == "element_start" && name == "p"' doc.udon
  udon events -e min=10 -where 'kind == "integer" && value >= min' doc.udon

Error events are always printed.`

func envOptTypeFunc(env map[string]any) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		if err := envFunc(env, a); err != nil {
			return nil, err
		}
		return 0, nil
	}
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [-w] [files]").
		WithDescription("check reports the first error of each document as file:line:col").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d", "di").
		WithOpts(opts...).
		WithSynopsis("diff a b").
		WithDescription("diff the event streams of two documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}
