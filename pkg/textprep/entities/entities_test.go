package entities

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type fixedRecognizer []Span

func (f fixedRecognizer) Entities(string) []Span { return f }

func TestMaskerNumbersPerLabel(t *testing.T) {
	text := "Alice met Bob in Paris and Alice left."
	rec := fixedRecognizer{
		{Label: "PERSON", Start: 0, End: 5},
		{Label: "PERSON", Start: 10, End: 13},
		{Label: "GPE", Start: 17, End: 22},
		{Label: "PERSON", Start: 27, End: 32},
	}
	got, counts := NewMasker(rec, nil).Mask(text)
	want := "PERSON_1 met PERSON_2 in GPE_1 and PERSON_3 left."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if counts["PERSON"] != 3 || counts["GPE"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestMaskerWithoutRecognizer(t *testing.T) {
	m := NewMasker(nil, nil)
	if m.Available() {
		t.Error("nil recognizer should be unavailable")
	}
	got, counts := m.Mask("Alice met Bob.")
	if got != "Alice met Bob." || len(counts) != 0 {
		t.Errorf("got %q %v", got, counts)
	}
}

func TestMaskerRejectsMalformedSpans(t *testing.T) {
	text := "Alice met Bob."
	bad := map[string]fixedRecognizer{
		"overlap":   {{"PERSON", 0, 5}, {"PERSON", 3, 8}},
		"unordered": {{"PERSON", 10, 13}, {"PERSON", 0, 5}},
		"range":     {{"PERSON", 10, 40}},
		"negative":  {{"PERSON", -1, 3}},
		"empty":     {{"PERSON", 4, 4}},
		"nolabel":   {{"", 0, 5}},
	}
	for name, rec := range bad {
		got, counts := NewMasker(rec, nil).Mask(text)
		if got != text || len(counts) != 0 {
			t.Errorf("%s: got %q %v, want input unchanged", name, got, counts)
		}
	}
}

func TestMaskerCountersResetPerDocument(t *testing.T) {
	m := NewMasker(fixedRecognizer{{"ORG", 0, 4}}, nil)
	for i := 0; i < 2; i++ {
		got, _ := m.Mask("NASA launched.")
		if got != "ORG_1 launched." {
			t.Errorf("call %d: got %q", i, got)
		}
	}
}

func TestGazetteerLongestMatch(t *testing.T) {
	g := NewGazetteer()
	g.Add("ORG", "Federal Reserve", []string{"Fed", "the Federal Reserve Bank"})
	g.Add("GPE", "New York", []string{"NYC"})
	g.Add("GPE", "York", nil)

	text := "The Federal Reserve Bank in new york said the fed would act. Fedora is a hat."
	spans := g.Entities(text)
	var got []string
	for _, sp := range spans {
		got = append(got, sp.Label+":"+text[sp.Start:sp.End])
	}
	want := []string{"ORG:The Federal Reserve Bank", "GPE:new york", "ORG:fed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGazetteerWithMasker(t *testing.T) {
	g := NewGazetteer()
	g.Add("ORG", "Reuters", nil)
	g.Add("PERSON", "Jane Doe", []string{"Doe"})

	got, _ := NewMasker(g, nil).Mask("Jane Doe told Reuters that Doe agreed.")
	want := "PERSON_1 told ORG_1 that PERSON_2 agreed."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadGazetteer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.yaml")
	data := `entities:
  ORG:
    Apple:
      - Apple Inc
  PERSON:
    Tim Cook:
      - Cook
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGazetteer(path)
	if err != nil {
		t.Fatalf("LoadGazetteer: %v", err)
	}
	if g.Len() != 4 {
		t.Errorf("Len = %d, want 4", g.Len())
	}
	spans := g.Entities("Tim Cook runs Apple Inc.")
	if len(spans) != 2 || spans[0].Label != "PERSON" || spans[1].Label != "ORG" {
		t.Fatalf("spans = %+v", spans)
	}
	if spans[1].End-spans[1].Start != len("Apple Inc") {
		t.Errorf("expected longest match for Apple Inc, got %+v", spans[1])
	}

	if _, err := LoadGazetteer(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
