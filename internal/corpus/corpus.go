// Package corpus cleans a directory tree of documents into a mirrored
// output tree, recording each document in the run ledger.
package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/textprep/pkg/textprep"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/report"
	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/store/memstore"
)

// DefaultExtensions are the file types cleaned when none are given.
var DefaultExtensions = []string{".txt"}

// Options configures a corpus run.
type Options struct {
	InputDir   string
	OutputDir  string
	Extensions []string // matched case-insensitively, with or without dot
	Workers    int      // <= 0 → 1

	Preprocessor *textprep.Preprocessor
	Store        store.Store // nil → in-memory ledger
	ConfigYAML   string      // recorded with the run
	Logger       *slog.Logger
}

// Summary describes a finished run.
type Summary struct {
	RunID  string
	Docs   int
	Failed int
	Report report.Summary
}

type job struct {
	rel string
}

type result struct {
	rel string
	doc textprep.CleanedDocument
	err error
}

// Run cleans every matching file under InputDir into OutputDir. Per-file
// failures are recorded and do not stop the run. Cancelling ctx stops
// dispatching new files; Run then returns ctx.Err() with the partial
// summary.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Preprocessor == nil {
		return Summary{}, fmt.Errorf("%w: preprocessor is required", internalerr.ErrInvalidInput)
	}
	if err := checkDirs(opts.InputDir, opts.OutputDir); err != nil {
		return Summary{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ledger := opts.Store
	if ledger == nil {
		ledger = memstore.New()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	files, err := Discover(opts.InputDir, opts.Extensions)
	if err != nil {
		return Summary{}, err
	}

	run, err := ledger.CreateRun(ctx, store.Run{Source: opts.InputDir, ConfigYAML: opts.ConfigYAML})
	if err != nil {
		return Summary{}, err
	}
	logger.Info("corpus run started", "run_id", run.ID, "files", len(files), "workers", workers,
		"input", opts.InputDir, "output", opts.OutputDir)

	var wg sync.WaitGroup
	jobs := make(chan job, workers)
	results := make(chan result, workers)

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go worker(opts, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for _, rel := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{rel: rel}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	agg := report.NewAggregator()
	sum := Summary{RunID: run.ID}
	for res := range results {
		rec := store.DocResult{RunID: run.ID, Path: filepath.ToSlash(res.rel)}
		if res.err != nil {
			sum.Failed++
			rec.Error = res.err.Error()
			logger.Error("document failed", "path", res.rel, "error", res.err)
		} else {
			rec.OriginalLen = res.doc.OriginalLen
			rec.CleanLen = res.doc.CleanLen
			rec.SpellChangeRatio = res.doc.SpellChangeRatio
			rec.Counts = res.doc.Counts()
			logger.Debug("document cleaned", "path", res.rel,
				"original_len", rec.OriginalLen, "clean_len", rec.CleanLen, "spell_change_ratio", rec.SpellChangeRatio)
		}
		sum.Docs++
		agg.Process(rec)
		// The ledger outlives cancellation so partial runs stay auditable.
		if err := ledger.RecordDoc(context.WithoutCancel(ctx), rec); err != nil {
			logger.Warn("ledger write failed", "path", res.rel, "error", err)
		}
	}

	if err := ledger.FinishRun(context.WithoutCancel(ctx), run.ID, time.Now(), sum.Docs, sum.Failed); err != nil {
		logger.Warn("ledger finish failed", "run_id", run.ID, "error", err)
	}
	sum.Report = agg.Summary()
	logger.Info("corpus run finished", "run_id", run.ID, "docs", sum.Docs, "failed", sum.Failed)

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

func worker(opts Options, wg *sync.WaitGroup, jobs <-chan job, results chan<- result) {
	defer wg.Done()
	for j := range jobs {
		doc, err := cleanFile(opts, j.rel)
		results <- result{rel: j.rel, doc: doc, err: err}
	}
}

func cleanFile(opts Options, rel string) (textprep.CleanedDocument, error) {
	src := filepath.Join(opts.InputDir, rel)
	data, err := os.ReadFile(src)
	if err != nil {
		return textprep.CleanedDocument{}, fmt.Errorf("read %s: %w", rel, err)
	}

	text := string(data)
	if IsHTML(rel) {
		text, err = ExtractHTML(bytes.NewReader(data))
		if err != nil {
			return textprep.CleanedDocument{}, fmt.Errorf("parse html %s: %w", rel, err)
		}
	}

	doc := opts.Preprocessor.CleanDocument(text)
	if err := doc.Save(filepath.Join(opts.OutputDir, OutputPath(rel))); err != nil {
		return textprep.CleanedDocument{}, err
	}
	return doc, nil
}

// IsHTML reports whether path names an HTML file.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// OutputPath maps an input path to its output path. HTML files become .txt
// since their output is plain text; everything else keeps its name.
func OutputPath(rel string) string {
	if IsHTML(rel) {
		return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".txt"
	}
	return rel
}

// Discover lists files under dir whose extension is in exts, in sorted order.
// Paths are relative to dir.
func Discover(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := want[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func checkDirs(in, out string) error {
	if in == "" || out == "" {
		return fmt.Errorf("%w: input and output directories are required", internalerr.ErrInvalidInput)
	}
	info, err := os.Stat(in)
	if err != nil {
		return fmt.Errorf("input %s: %w", in, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", internalerr.ErrInvalidInput, in)
	}

	absIn, err := resolve(in)
	if err != nil {
		return err
	}
	absOut, err := resolve(out)
	if err != nil {
		return err
	}
	if absIn == absOut {
		return fmt.Errorf("%w: %s", internalerr.ErrSameDirectory, absIn)
	}
	return nil
}

// resolve returns an absolute path with symlinks evaluated where the path
// exists.
func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	return filepath.Clean(abs), nil
}
