// Package textprep cleans raw news and Q&A text for statistical analysis.
//
// A Preprocessor runs a fixed sequence of stages (unicode repair, linebreak
// repair, wire scaffolding removal, date/time normalization, spacing,
// budgeted spelling correction, entity masking, final spacing) and skips the
// ones its configuration disables.
package textprep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/cognicore/textprep/pkg/textprep/config"
	"github.com/cognicore/textprep/pkg/textprep/entities"
	"github.com/cognicore/textprep/pkg/textprep/lexicon"
	"github.com/cognicore/textprep/pkg/textprep/spell"
)

// Preprocessor is immutable and safe for concurrent use.
type Preprocessor struct {
	cfg    config.Config
	stages []Stage
	logger *slog.Logger
}

// Options configures a Preprocessor.
type Options struct {
	Config     config.Config
	Commonness spell.Commonness    // nil → embedded English lexicon
	Tokenizer  spell.Tokenizer     // nil → UAX29Tokenizer
	Recognizer entities.Recognizer // nil → entity masking is a no-op
	Logger     *slog.Logger        // nil → discard
}

// New validates the configuration and builds a Preprocessor.
func New(opts Options) (*Preprocessor, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	common := opts.Commonness
	if common == nil {
		common = lexicon.English()
	}
	tok := opts.Tokenizer
	if tok == nil {
		tok = spell.UAX29Tokenizer{}
	}

	corrector, err := spell.NewCorrector(spell.Options{
		Commonness:     common,
		Tokenizer:      tok,
		MinZipf:        opts.Config.MinZipfForCorrection,
		MaxChangeRatio: opts.Config.MaxChangeRatio,
		Logger:         logger.With("stage", StageSpelling),
	})
	if err != nil {
		return nil, err
	}
	masker := entities.NewMasker(opts.Recognizer, logger.With("stage", StageEntities))

	return &Preprocessor{
		cfg:    opts.Config,
		stages: buildStages(corrector, masker),
		logger: logger,
	}, nil
}

// FromConfig loads the resources named in cfg and builds a Preprocessor.
func FromConfig(cfg config.Config, logger *slog.Logger) (*Preprocessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	comp, err := config.LoaderFor(cfg).Load()
	if err != nil {
		return nil, err
	}
	return New(Options{
		Config:     cfg,
		Commonness: comp.Lexicon,
		Recognizer: comp.Recognizer,
		Logger:     logger,
	})
}

// Config returns the configuration snapshot.
func (p *Preprocessor) Config() config.Config {
	return p.cfg
}

// Stages returns the names of all stages in execution order, enabled or not.
func (p *Preprocessor) Stages() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.Name
	}
	return names
}

// EnabledStages returns the names of the stages the configuration enables.
func (p *Preprocessor) EnabledStages() []string {
	var names []string
	for _, st := range p.stages {
		if st.Enabled(p.cfg) {
			names = append(names, st.Name)
		}
	}
	return names
}

// CleanDocument runs every enabled stage over text. It does not fail: a
// stage that breaks leaves its input unchanged.
func (p *Preprocessor) CleanDocument(text string) CleanedDocument {
	doc := CleanedDocument{OriginalLen: utf8.RuneCountInString(text)}

	current := text
	for _, st := range p.stages {
		if !st.Enabled(p.cfg) {
			continue
		}
		out, rep := p.apply(st, current)
		if rep.Spelling != nil {
			doc.SpellChangeRatio = rep.Spelling.Ratio
		}
		doc.Stages = append(doc.Stages, rep)
		current = out
	}

	doc.CleanText = current
	doc.CleanLen = utf8.RuneCountInString(current)
	return doc
}

func (p *Preprocessor) apply(st Stage, text string) (out string, rep StageReport) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("stage failed, keeping input", "stage", st.Name, "panic", fmt.Sprint(r))
			out = text
			rep = StageReport{Name: st.Name, Recovered: true}
		}
	}()

	out, rep = st.Apply(text)
	rep.Name = st.Name
	if p.logger.Enabled(context.Background(), slog.LevelInfo) {
		p.logger.Info("stage applied", "stage", st.Name, "changes", rep.Counts.Total(), "counts", map[string]int(rep.Counts))
	}
	return out, rep
}
