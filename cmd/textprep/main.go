package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "textprep:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "textprep",
		Usage: "clean raw news and Q&A text for statistical analysis",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
			&cli.StringFlag{Name: "log-file", Aliases: []string{"l"}, Usage: "also write JSON logs to `FILE`"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "pipeline configuration `YAML`"},
			&cli.BoolFlag{Name: "strip-scaffolding", Usage: "override strip_wire_scaffolding"},
			&cli.BoolFlag{Name: "spelling", Usage: "override conservative_spelling"},
			&cli.BoolFlag{Name: "mask-entities", Usage: "override entity_masking"},
			&cli.StringFlag{Name: "entities", Usage: "gazetteer `YAML` for entity masking"},
			&cli.StringFlag{Name: "lexicon", Usage: "word frequency `TSV` (word<TAB>zipf)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "file",
				Usage:  "clean a single text file",
				Action: fileAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "input `FILE`"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "output `FILE`"},
				},
			},
			{
				Name:   "corpus",
				Usage:  "clean every matching file under a directory into a mirrored tree",
				Action: corpusAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "input `DIR`"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "output `DIR`"},
					&cli.StringSliceFlag{Name: "extensions", Aliases: []string{"e"}, Value: cli.NewStringSlice(".txt"), Usage: "file extensions to clean"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: runtime.NumCPU(), Usage: "parallel workers"},
					&cli.StringFlag{Name: "db", Usage: "record the run in this SQLite ledger"},
					&cli.IntFlag{Name: "top-rules", Value: 10, Usage: "rules listed in the summary (0 = all)"},
				},
			},
			{
				Name:   "jsonl",
				Usage:  "clean one field of every record in a JSON Lines file",
				Action: jsonlAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "input `FILE`"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "output `FILE`"},
					&cli.StringFlag{Name: "field", Aliases: []string{"f"}, Value: "text", Usage: "record field to clean"},
				},
			},
			{
				Name:   "runs",
				Usage:  "list recorded corpus runs, or show one with --run",
				Action: runsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true, Usage: "SQLite ledger `FILE`"},
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of runs to list"},
					&cli.StringFlag{Name: "run", Usage: "show the report of run `ID`"},
				},
			},
		},
	}
}
