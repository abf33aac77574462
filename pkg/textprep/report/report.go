// Package report aggregates per-document results of a corpus run.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/cognicore/textprep/pkg/textprep/store"
)

// Aggregator accumulates document results. It is not safe for concurrent
// use; feed it from a single goroutine.
type Aggregator struct {
	docs          int64
	failed        int64
	originalChars int64
	cleanChars    int64
	spellDocs     int64
	spellRatioSum float64
	rules         map[string]int64
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{rules: make(map[string]int64)}
}

// Process consumes one document result.
func (a *Aggregator) Process(d store.DocResult) {
	a.docs++
	if d.Error != "" {
		a.failed++
		return
	}
	a.originalChars += int64(d.OriginalLen)
	a.cleanChars += int64(d.CleanLen)
	if d.SpellChangeRatio > 0 {
		a.spellDocs++
		a.spellRatioSum += d.SpellChangeRatio
	}
	for rule, n := range d.Counts {
		if n != 0 {
			a.rules[rule] += int64(n)
		}
	}
}

// RuleCount is a rule with its total replacements.
type RuleCount struct {
	Rule  string
	Count int64
}

// Summary is a snapshot of the aggregated statistics.
type Summary struct {
	Docs          int64
	Failed        int64
	OriginalChars int64
	CleanChars    int64
	// ShrinkRatio is the fraction of characters removed, over successful docs.
	ShrinkRatio float64
	// SpellDocs counts documents where spelling fixes were applied.
	SpellDocs      int64
	MeanSpellRatio float64
	Rules          []RuleCount // sorted by count desc, then name
}

// Summary returns the current statistics.
func (a *Aggregator) Summary() Summary {
	s := Summary{
		Docs:          a.docs,
		Failed:        a.failed,
		OriginalChars: a.originalChars,
		CleanChars:    a.cleanChars,
		SpellDocs:     a.spellDocs,
	}
	if a.originalChars > 0 {
		s.ShrinkRatio = 1 - float64(a.cleanChars)/float64(a.originalChars)
	}
	if a.spellDocs > 0 {
		s.MeanSpellRatio = a.spellRatioSum / float64(a.spellDocs)
	}
	for rule, n := range a.rules {
		s.Rules = append(s.Rules, RuleCount{Rule: rule, Count: n})
	}
	sort.Slice(s.Rules, func(i, j int) bool {
		if s.Rules[i].Count != s.Rules[j].Count {
			return s.Rules[i].Count > s.Rules[j].Count
		}
		return s.Rules[i].Rule < s.Rules[j].Rule
	})
	return s
}

// TopRules returns at most k rules from the summary.
func (s Summary) TopRules(k int) []RuleCount {
	if k <= 0 || k >= len(s.Rules) {
		return s.Rules
	}
	return s.Rules[:k]
}

// ForRun aggregates every recorded result of a run.
func ForRun(ctx context.Context, st store.Store, runID string) (Summary, error) {
	results, err := st.DocResults(ctx, runID)
	if err != nil {
		return Summary{}, err
	}
	a := NewAggregator()
	for _, d := range results {
		a.Process(d)
	}
	return a.Summary(), nil
}

// Write renders the summary as an aligned table. topRules limits the rule
// listing; 0 lists all rules.
func (s Summary) Write(w io.Writer, topRules int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "docs\t%d\n", s.Docs)
	fmt.Fprintf(tw, "failed\t%d\n", s.Failed)
	fmt.Fprintf(tw, "chars\t%d → %d (%.1f%% removed)\n", s.OriginalChars, s.CleanChars, 100*s.ShrinkRatio)
	fmt.Fprintf(tw, "spelling\t%d docs, mean ratio %.4f\n", s.SpellDocs, s.MeanSpellRatio)
	for _, rc := range s.TopRules(topRules) {
		fmt.Fprintf(tw, "  %s\t%d\n", rc.Rule, rc.Count)
	}
	return tw.Flush()
}
