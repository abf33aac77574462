package config

import (
	"fmt"

	"github.com/cognicore/textprep/pkg/textprep/entities"
	"github.com/cognicore/textprep/pkg/textprep/lexicon"
)

// Loader turns resource paths into pipeline capabilities.
type Loader struct {
	LexiconPath  string
	EntitiesPath string
}

// Components holds the loaded capabilities.
type Components struct {
	Lexicon    *lexicon.Table
	Recognizer entities.Recognizer // nil when no gazetteer is configured
}

// LoaderFor returns a loader for the resource paths in cfg.
func LoaderFor(cfg Config) *Loader {
	return &Loader{LexiconPath: cfg.LexiconPath, EntitiesPath: cfg.EntitiesPath}
}

// Load reads all configured resources.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.LexiconPath != "" {
		table, err := lexicon.LoadFile(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = table
	} else {
		comp.Lexicon = lexicon.English()
	}

	if l.EntitiesPath != "" {
		g, err := entities.LoadGazetteer(l.EntitiesPath)
		if err != nil {
			return nil, fmt.Errorf("load entities: %w", err)
		}
		comp.Recognizer = g
	}

	return comp, nil
}
