package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cognicore/textprep/internal/corpus"
	"github.com/cognicore/textprep/internal/jsonl"
	"github.com/cognicore/textprep/pkg/textprep"
	"github.com/cognicore/textprep/pkg/textprep/config"
	"github.com/cognicore/textprep/pkg/textprep/report"
	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/store/sqlite"
)

// loadConfig reads --config (or the defaults) and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return config.Config{}, err
		}
	}
	if c.IsSet("strip-scaffolding") {
		cfg.StripWireScaffolding = c.Bool("strip-scaffolding")
	}
	if c.IsSet("spelling") {
		cfg.ConservativeSpelling = c.Bool("spelling")
	}
	if c.IsSet("mask-entities") {
		cfg.EntityMasking = c.Bool("mask-entities")
	}
	if path := c.String("entities"); path != "" {
		cfg.EntitiesPath = path
	}
	if path := c.String("lexicon"); path != "" {
		cfg.LexiconPath = path
	}
	return cfg, cfg.Validate()
}

func setup(c *cli.Context) (*textprep.Preprocessor, config.Config, *slog.Logger, func(), error) {
	logger, closeLog, err := newLogger(c)
	if err != nil {
		return nil, config.Config{}, nil, nil, err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		closeLog()
		return nil, config.Config{}, nil, nil, err
	}
	pre, err := textprep.FromConfig(cfg, logger)
	if err != nil {
		closeLog()
		return nil, config.Config{}, nil, nil, err
	}
	logger.Debug("pipeline ready", "stages", pre.EnabledStages())
	return pre, cfg, logger, closeLog, nil
}

func fileAction(c *cli.Context) error {
	pre, _, logger, closeLog, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog()

	in, out := c.String("input"), c.String("output")
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}

	text := string(data)
	if corpus.IsHTML(in) {
		if text, err = corpus.ExtractHTML(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("parse html %s: %w", in, err)
		}
	}

	doc := pre.CleanDocument(text)
	if err := doc.Save(out); err != nil {
		return err
	}
	logger.Info("file cleaned", "input", in, "output", out,
		"original_len", doc.OriginalLen, "clean_len", doc.CleanLen, "spell_change_ratio", doc.SpellChangeRatio)
	return nil
}

func corpusAction(c *cli.Context) error {
	pre, cfg, logger, closeLog, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog()

	var ledger store.Store
	if path := c.String("db"); path != "" {
		ledger, err = sqlite.OpenSQLite(c.Context, path)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer ledger.Close()
	}

	start := time.Now()
	sum, err := corpus.Run(c.Context, corpus.Options{
		InputDir:     c.String("input"),
		OutputDir:    c.String("output"),
		Extensions:   c.StringSlice("extensions"),
		Workers:      c.Int("workers"),
		Preprocessor: pre,
		Store:        ledger,
		ConfigYAML:   cfg.YAML(),
		Logger:       logger,
	})
	if err != nil && sum.RunID == "" {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "run %s (%s)\n", sum.RunID, time.Since(start).Round(time.Millisecond))
	if werr := sum.Report.Write(w, c.Int("top-rules")); werr != nil {
		return werr
	}
	return err
}

func jsonlAction(c *cli.Context) error {
	pre, _, logger, closeLog, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog()

	in, out := c.String("input"), c.String("output")
	stats, err := jsonl.ProcessFile(c.Context, in, out, jsonl.Options{
		Field:        c.String("field"),
		Preprocessor: pre,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	logger.Info("jsonl cleaned", "input", in, "output", out, "records", stats.Records,
		"cleaned", stats.Cleaned, "skipped", stats.Skipped, "untouched", stats.Untouched)
	return nil
}

func runsAction(c *cli.Context) error {
	ledger, err := sqlite.OpenSQLite(c.Context, c.String("db"))
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer ledger.Close()

	w := c.App.Writer
	if id := c.String("run"); id != "" {
		run, err := ledger.GetRun(c.Context, id)
		if err != nil {
			return err
		}
		sum, err := report.ForRun(c.Context, ledger, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "run %s  source %s  started %s\n", run.ID, run.Source, run.StartedAt.Format(time.RFC3339))
		return sum.Write(w, 0)
	}

	runs, err := ledger.ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-26s %-20s %-8s %-8s %-10s %s\n", "ID", "Started", "Docs", "Failed", "Duration", "Source")
	for _, r := range runs {
		duration := "running"
		if r.Finished() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%-26s %-20s %-8d %-8d %-10s %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Docs, r.Failed, duration, r.Source)
	}
	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	return nil
}
