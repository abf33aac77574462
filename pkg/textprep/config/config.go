// Package config defines the pipeline configuration and its YAML form.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// Config toggles the cleaning stages. A validated Config is treated as
// read-only.
type Config struct {
	StripWireScaffolding    bool    `yaml:"strip_wire_scaffolding"`
	NormalizeUnicode        bool    `yaml:"normalize_unicode"`
	NormalizeSpacingPunct   bool    `yaml:"normalize_spacing_punct"`
	FixLinebreakHyphenation bool    `yaml:"fix_linebreak_hyphenation"`
	NormalizeDatesTimes     bool    `yaml:"normalize_dates_times"`
	EntityMasking           bool    `yaml:"entity_masking"`
	ConservativeSpelling    bool    `yaml:"conservative_spelling"`
	MaxChangeRatio          float64 `yaml:"max_change_ratio"`
	MinZipfForCorrection    float64 `yaml:"min_zipf_for_correction"`

	// Optional resources. Empty means the embedded English lexicon and no
	// entity recognizer.
	LexiconPath  string `yaml:"lexicon_path,omitempty"`
	EntitiesPath string `yaml:"entities_path,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		NormalizeUnicode:        true,
		NormalizeSpacingPunct:   true,
		FixLinebreakHyphenation: true,
		NormalizeDatesTimes:     true,
		MaxChangeRatio:          0.01,
		MinZipfForCorrection:    4.0,
	}
}

// Validate rejects out-of-range numeric settings. Values are never clamped.
func (c Config) Validate() error {
	r := c.MaxChangeRatio
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r > 1 {
		return fmt.Errorf("%w: max_change_ratio must be within [0, 1], got %v", internalerr.ErrInvalidConfig, r)
	}
	z := c.MinZipfForCorrection
	if math.IsNaN(z) || math.IsInf(z, 0) || z < 0 {
		return fmt.Errorf("%w: min_zipf_for_correction must be a non-negative number, got %v", internalerr.ErrInvalidConfig, z)
	}
	return nil
}

// Parse reads YAML from r on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile loads a YAML configuration file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// YAML renders the configuration, e.g. for the run ledger.
func (c Config) YAML() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(out)
}
