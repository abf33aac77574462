package report

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/cognicore/textprep/pkg/textprep/store"
	"github.com/cognicore/textprep/pkg/textprep/store/memstore"
)

func TestAggregator(t *testing.T) {
	a := NewAggregator()
	a.Process(store.DocResult{Path: "a", OriginalLen: 100, CleanLen: 90, SpellChangeRatio: 0.02,
		Counts: map[string]int{"spacing.multispaces_collapsed": 3, "unicode.nbsp": 1}})
	a.Process(store.DocResult{Path: "b", OriginalLen: 100, CleanLen: 70,
		Counts: map[string]int{"spacing.multispaces_collapsed": 2, "datetime.dates": 0}})
	a.Process(store.DocResult{Path: "c", Error: "read c: denied", OriginalLen: 50})

	s := a.Summary()
	if s.Docs != 3 || s.Failed != 1 {
		t.Errorf("docs=%d failed=%d", s.Docs, s.Failed)
	}
	if s.OriginalChars != 200 || s.CleanChars != 160 {
		t.Errorf("chars %d → %d", s.OriginalChars, s.CleanChars)
	}
	if math.Abs(s.ShrinkRatio-0.2) > 1e-9 {
		t.Errorf("ShrinkRatio = %v, want 0.2", s.ShrinkRatio)
	}
	if s.SpellDocs != 1 || s.MeanSpellRatio != 0.02 {
		t.Errorf("spell docs=%d mean=%v", s.SpellDocs, s.MeanSpellRatio)
	}
	want := []RuleCount{{"spacing.multispaces_collapsed", 5}, {"unicode.nbsp", 1}}
	if len(s.Rules) != len(want) {
		t.Fatalf("rules = %v", s.Rules)
	}
	for i := range want {
		if s.Rules[i] != want[i] {
			t.Errorf("rule %d = %v, want %v", i, s.Rules[i], want[i])
		}
	}
	if top := s.TopRules(1); len(top) != 1 || top[0].Rule != "spacing.multispaces_collapsed" {
		t.Errorf("TopRules(1) = %v", top)
	}
}

func TestEmptySummary(t *testing.T) {
	s := NewAggregator().Summary()
	if s.Docs != 0 || s.ShrinkRatio != 0 || s.MeanSpellRatio != 0 || len(s.Rules) != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestForRunAndWrite(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	run, err := st.CreateRun(ctx, store.Run{Source: "in"})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.RecordDoc(ctx, store.DocResult{RunID: run.ID, Path: "x.txt", OriginalLen: 10, CleanLen: 5,
		Counts: map[string]int{"linebreak.dehyphen": 2}}); err != nil {
		t.Fatal(err)
	}

	s, err := ForRun(ctx, st, run.ID)
	if err != nil {
		t.Fatalf("ForRun: %v", err)
	}
	if s.Docs != 1 || s.ShrinkRatio != 0.5 {
		t.Errorf("summary = %+v", s)
	}

	var buf bytes.Buffer
	if err := s.Write(&buf, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"docs", "50.0% removed", "linebreak.dehyphen"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
