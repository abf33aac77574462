package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/textprep/pkg/textprep/lexicon"
)

func TestLoaderDefaults(t *testing.T) {
	comp, err := LoaderFor(Default()).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Lexicon != lexicon.English() {
		t.Error("expected embedded English lexicon")
	}
	if comp.Recognizer != nil {
		t.Error("expected no recognizer")
	}
}

func TestLoaderFromFiles(t *testing.T) {
	dir := t.TempDir()
	lexPath := filepath.Join(dir, "words.tsv")
	entPath := filepath.Join(dir, "entities.yaml")
	if err := os.WriteFile(lexPath, []byte("cool\t5.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entPath, []byte("entities:\n  ORG:\n    Reuters: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	comp, err := (&Loader{LexiconPath: lexPath, EntitiesPath: entPath}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Lexicon.Len() != 1 || comp.Lexicon.Zipf("cool") != 5.0 {
		t.Errorf("lexicon not loaded from file")
	}
	if comp.Recognizer == nil || len(comp.Recognizer.Entities("says Reuters")) != 1 {
		t.Errorf("gazetteer not loaded from file")
	}
}

func TestLoaderErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := (&Loader{LexiconPath: missing}).Load(); err == nil {
		t.Error("expected lexicon error")
	}
	if _, err := (&Loader{EntitiesPath: missing}).Load(); err == nil {
		t.Error("expected entities error")
	}
}
