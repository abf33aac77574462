// Package spell implements a narrow, budgeted spelling corrector.
//
// The corrector only fixes rare words that become common after removing one
// doubled letter ("coool" → "cool"). All proposed fixes for a document are
// applied together or not at all: when they would change more than the
// allowed fraction of eligible tokens, the document is returned untouched.
package spell

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// Commonness scores how frequent a word is. Higher is more common.
type Commonness interface {
	Zipf(word string) float64
}

// Outcome describes what a correction pass did.
type Outcome string

const (
	OutcomeNoCandidates         Outcome = "no_candidates"
	OutcomeNoProposals          Outcome = "no_proposals"
	OutcomeAbortedBudget        Outcome = "aborted_budget"
	OutcomeTokenizerUnavailable Outcome = "tokenizer_unavailable"
	OutcomeInconsistent         Outcome = "inconsistent"
	OutcomeApplied              Outcome = "applied"
)

// Report summarises one call to Correct.
//
// Ratio is the change ratio of the returned text: zero unless the fixes
// were applied.
type Report struct {
	Ratio    float64
	Eligible int
	Proposed int
	Applied  int
	Outcome  Outcome
}

// Fix is one accepted replacement.
type Fix struct {
	Token       Token
	Replacement string
}

// Options configures a Corrector.
type Options struct {
	Commonness     Commonness
	Distance       Distance  // nil → Levenshtein
	Tokenizer      Tokenizer // nil → RegexpTokenizer (no reconstruction)
	MinZipf        float64
	MaxChangeRatio float64
	Logger         *slog.Logger
}

// Corrector is immutable and safe for concurrent use.
type Corrector struct {
	common    Commonness
	distance  Distance
	tokenizer Tokenizer
	minZipf   float64
	maxRatio  float64
	logger    *slog.Logger
}

// NewCorrector validates opts and builds a Corrector.
func NewCorrector(opts Options) (*Corrector, error) {
	if opts.Commonness == nil {
		return nil, fmt.Errorf("%w: commonness oracle is required", internalerr.ErrInvalidConfig)
	}
	if bad(opts.MaxChangeRatio) || opts.MaxChangeRatio < 0 || opts.MaxChangeRatio > 1 {
		return nil, fmt.Errorf("%w: max change ratio %v not in [0, 1]", internalerr.ErrInvalidConfig, opts.MaxChangeRatio)
	}
	if bad(opts.MinZipf) || opts.MinZipf < 0 {
		return nil, fmt.Errorf("%w: min zipf %v must be a non-negative number", internalerr.ErrInvalidConfig, opts.MinZipf)
	}

	c := &Corrector{
		common:    opts.Commonness,
		distance:  opts.Distance,
		tokenizer: opts.Tokenizer,
		minZipf:   opts.MinZipf,
		maxRatio:  opts.MaxChangeRatio,
		logger:    opts.Logger,
	}
	if c.distance == nil {
		c.distance = Levenshtein{}
	}
	if c.tokenizer == nil {
		c.tokenizer = RegexpTokenizer{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

func bad(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Correct returns the corrected text and a report of what happened.
// Text without letters, or with nothing to fix, is returned as is.
func (c *Corrector) Correct(text string) (string, Report) {
	tokens := c.tokenizer.Tokenize(text)
	fixes, eligible := c.Propose(tokens)

	rep := Report{Eligible: eligible, Proposed: len(fixes)}
	switch {
	case eligible == 0:
		rep.Outcome = OutcomeNoCandidates
		c.log(rep)
		return text, rep
	case len(fixes) == 0:
		rep.Outcome = OutcomeNoProposals
		c.log(rep)
		return text, rep
	}

	ratio := float64(len(fixes)) / float64(max(1, eligible))
	if ratio > c.maxRatio {
		rep.Outcome = OutcomeAbortedBudget
		c.logger.Info("spelling fixes discarded", "outcome", rep.Outcome,
			"ratio", ratio, "max_ratio", c.maxRatio, "proposed", rep.Proposed, "eligible", eligible)
		return text, rep
	}

	if !c.tokenizer.Exact() {
		rep.Outcome = OutcomeTokenizerUnavailable
		c.logger.Info("spelling fixes not applied: tokenizer offsets are not exact",
			"outcome", rep.Outcome, "proposed", rep.Proposed, "eligible", eligible)
		return text, rep
	}

	out, err := Splice(text, fixes)
	if err != nil {
		rep.Outcome = OutcomeInconsistent
		c.logger.Warn("spelling reconstruction failed", "outcome", rep.Outcome, "error", err)
		return text, rep
	}

	rep.Ratio = ratio
	rep.Applied = len(fixes)
	rep.Outcome = OutcomeApplied
	c.log(rep)
	return out, rep
}

func (c *Corrector) log(rep Report) {
	c.logger.Debug("spelling pass", "outcome", rep.Outcome, "eligible", rep.Eligible,
		"proposed", rep.Proposed, "applied", rep.Applied, "ratio", rep.Ratio)
}

// Propose returns the accepted fixes for tokens, in token order, and the
// number of eligible tokens.
func (c *Corrector) Propose(tokens []Token) ([]Fix, int) {
	var fixes []Fix
	eligible := 0
	for _, tok := range tokens {
		if !Eligible(tok) {
			continue
		}
		eligible++
		if fix, ok := c.fix(tok.Text); ok {
			fixes = append(fixes, Fix{Token: tok, Replacement: fix})
		}
	}
	return fixes, eligible
}

// fix tries the single doubled-letter removal on word.
func (c *Corrector) fix(word string) (string, bool) {
	lower := strings.ToLower(word)
	if c.common.Zipf(lower) >= c.minZipf {
		return "", false
	}

	stem := strings.TrimRight(lower, "'")
	suffix := lower[len(stem):]
	runes := []rune(stem)
	for j := 1; j < len(runes)-1; j++ {
		if runes[j] != runes[j-1] {
			continue
		}
		candidate := string(runes[:j]) + string(runes[j+1:])
		if c.common.Zipf(candidate) < c.minZipf || c.distance.Distance(stem, candidate) != 1 {
			return "", false
		}
		return applyCase(word, candidate) + suffix, true
	}
	return "", false
}

// Eligible reports whether tok may be corrected: alphabetic and not an
// all-uppercase token of two or more letters.
func Eligible(tok Token) bool {
	if !tok.IsAlpha {
		return false
	}
	return !(isUpper(tok.Text) && utf8.RuneCountInString(tok.Text) >= 2)
}

func applyCase(original, fix string) string {
	if isLower(original) {
		return fix
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(fix)
		return string(unicode.ToUpper(r)) + fix[size:]
	}
	return fix
}

// isUpper reports whether s has cased letters and none of them is lower case.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// Splice writes each replacement over its token's byte range and keeps all
// other bytes. Fixes must be in offset order and must not overlap; each
// token must match the text at its offset.
func Splice(text string, fixes []Fix) (string, error) {
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, f := range fixes {
		start, end := f.Token.Offset, f.Token.End()
		if start < pos || end > len(text) {
			return text, fmt.Errorf("token %q at %d out of order or range", f.Token.Text, start)
		}
		if text[start:end] != f.Token.Text {
			return text, fmt.Errorf("token %q does not match text at %d", f.Token.Text, start)
		}
		b.WriteString(text[pos:start])
		b.WriteString(f.Replacement)
		pos = end
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}
