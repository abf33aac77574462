package textprep

import (
	"fmt"
	"os"
	"path/filepath"
)

// CleanedDocument is the result of cleaning one document. Lengths count
// Unicode code points.
type CleanedDocument struct {
	CleanText        string
	OriginalLen      int
	CleanLen         int
	SpellChangeRatio float64
	Stages           []StageReport
}

// Counts returns per-rule counts across all stages keyed "stage.rule".
func (d CleanedDocument) Counts() map[string]int {
	out := make(map[string]int)
	for _, st := range d.Stages {
		for rule, n := range st.Counts {
			out[st.Name+"."+rule] += n
		}
	}
	return out
}

// Save writes the clean text to path, creating parent directories.
func (d CleanedDocument) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(d.CleanText), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
