// Package lexicon provides word-commonness scores on the Zipf scale.
//
// A Zipf score is log10 of how many times a word occurs per billion words of
// running text: "the" sits near 7.7, everyday words between 4 and 6, and rare
// words below 3. Unknown words score 0.
//
// Tables are immutable after construction and safe for concurrent use.
package lexicon

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
)

//go:embed english.tsv
var englishData string

// Table maps lower-cased words to Zipf scores.
type Table struct {
	scores map[string]float64
}

var (
	englishOnce  sync.Once
	englishTable *Table
)

// English returns the embedded English table. It is parsed once.
func English() *Table {
	englishOnce.Do(func() {
		t, err := Load(strings.NewReader(englishData))
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded english table: %v", err))
		}
		englishTable = t
	})
	return englishTable
}

// New builds a table from a word → score map. Words are lower-cased.
func New(scores map[string]float64) *Table {
	t := &Table{scores: make(map[string]float64, len(scores))}
	for w, z := range scores {
		t.scores[strings.ToLower(w)] = z
	}
	return t
}

// Load reads a table in "word<TAB>zipf" format. Blank lines and lines
// starting with '#' are skipped.
func Load(r io.Reader) (*Table, error) {
	t := &Table{scores: make(map[string]float64)}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want 2 fields, got %d", lineNo, len(fields))
		}
		z, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(z) || math.IsInf(z, 0) {
			return nil, fmt.Errorf("line %d: bad score %q", lineNo, fields[1])
		}
		t.scores[strings.ToLower(fields[0])] = z
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile loads a table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// FromCounts derives Zipf scores from raw corpus counts.
func FromCounts(counts map[string]int64) *Table {
	var total int64
	merged := make(map[string]int64, len(counts))
	for w, n := range counts {
		if n <= 0 {
			continue
		}
		merged[strings.ToLower(w)] += n
		total += n
	}

	t := &Table{scores: make(map[string]float64, len(merged))}
	if total == 0 {
		return t
	}
	for w, n := range merged {
		t.scores[w] = math.Log10(float64(n)/float64(total)) + 9
	}
	return t
}

// Zipf returns the score of word, or 0 when the word is unknown.
func (t *Table) Zipf(word string) float64 {
	return t.scores[strings.ToLower(word)]
}

// Contains reports whether word has an entry.
func (t *Table) Contains(word string) bool {
	_, ok := t.scores[strings.ToLower(word)]
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.scores)
}
