// Package entities replaces named-entity spans with numbered placeholders.
//
// Recognition is a pluggable capability. When no recognizer is configured
// the Masker leaves text unchanged.
package entities

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Span is a labelled byte range [Start, End) of a text.
type Span struct {
	Label string
	Start int
	End   int
}

// Recognizer finds entity spans. Spans must be non-overlapping and in
// document order.
type Recognizer interface {
	Entities(text string) []Span
}

// Masker replaces recognized spans with LABEL_n tags, n counting from 1 per
// label within one document.
type Masker struct {
	recognizer Recognizer
	logger     *slog.Logger
}

// NewMasker creates a masker. A nil recognizer yields a no-op masker.
func NewMasker(rec Recognizer, logger *slog.Logger) *Masker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Masker{recognizer: rec, logger: logger}
}

// Available reports whether a recognizer is configured.
func (m *Masker) Available() bool {
	return m.recognizer != nil
}

// Mask returns text with entity spans replaced and the number of spans
// masked per label.
func (m *Masker) Mask(text string) (string, map[string]int) {
	counts := make(map[string]int)
	if m.recognizer == nil {
		m.logger.Info("entity masking skipped: no recognizer")
		return text, counts
	}

	spans := m.recognizer.Entities(text)
	if err := validate(text, spans); err != nil {
		m.logger.Warn("entity masking aborted", "error", err)
		return text, map[string]int{}
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, sp := range spans {
		counts[sp.Label]++
		b.WriteString(text[pos:sp.Start])
		b.WriteString(sp.Label)
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(counts[sp.Label]))
		pos = sp.End
	}
	b.WriteString(text[pos:])
	return b.String(), counts
}

func validate(text string, spans []Span) error {
	prev := 0
	for i, sp := range spans {
		switch {
		case sp.Label == "":
			return fmt.Errorf("span %d has no label", i)
		case sp.Start < prev:
			return fmt.Errorf("span %d [%d,%d) overlaps or is out of order", i, sp.Start, sp.End)
		case sp.End <= sp.Start:
			return fmt.Errorf("span %d [%d,%d) is empty", i, sp.Start, sp.End)
		case sp.End > len(text):
			return fmt.Errorf("span %d [%d,%d) past end of text (%d)", i, sp.Start, sp.End, len(text))
		}
		prev = sp.End
	}
	return nil
}
