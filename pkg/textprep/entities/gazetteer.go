package entities

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Gazetteer recognizes entities from keyword lists.
//
// Matching is case-insensitive and word-bounded; at each position the
// longest keyword wins. Call Add while building, then use the gazetteer
// read-only.
type Gazetteer struct {
	// first lower-cased rune → phrases, longest first
	index map[rune][]phrase
	size  int
}

type phrase struct {
	text  string
	label string
}

// GazetteerFile is the YAML layout: entities → label → name → keywords.
type GazetteerFile struct {
	Entities map[string]map[string][]string `yaml:"entities"`
}

// NewGazetteer creates an empty gazetteer.
func NewGazetteer() *Gazetteer {
	return &Gazetteer{index: make(map[rune][]phrase)}
}

// Add registers keywords for a named entity under label. Empty keywords are
// ignored; the name itself is always a keyword.
func (g *Gazetteer) Add(label, name string, keywords []string) {
	all := append([]string{name}, keywords...)
	seen := make(map[string]struct{}, len(all))
	for _, kw := range all {
		kw = strings.TrimSpace(kw)
		key := strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		r, _ := utf8.DecodeRuneInString(key)
		g.index[r] = append(g.index[r], phrase{text: kw, label: label})
		g.size++
	}
	for r, list := range g.index {
		sort.SliceStable(list, func(i, j int) bool { return len(list[i].text) > len(list[j].text) })
		g.index[r] = list
	}
}

// Len returns the number of keywords.
func (g *Gazetteer) Len() int {
	return g.size
}

// LoadGazetteer reads a YAML gazetteer file.
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	var file GazetteerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse gazetteer %s: %w", path, err)
	}
	return FromFile(file), nil
}

// FromFile builds a gazetteer from parsed YAML.
func FromFile(file GazetteerFile) *Gazetteer {
	g := NewGazetteer()
	labels := make([]string, 0, len(file.Entities))
	for label := range file.Entities {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		names := make([]string, 0, len(file.Entities[label]))
		for name := range file.Entities[label] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			g.Add(label, name, file.Entities[label][name])
		}
	}
	return g
}

// Entities implements Recognizer.
func (g *Gazetteer) Entities(text string) []Span {
	var spans []Span
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) || !wordStart(text, i) {
			i += size
			continue
		}
		if sp, ok := g.matchAt(text, i, unicode.ToLower(r)); ok {
			spans = append(spans, sp)
			i = sp.End
			continue
		}
		i += size
	}
	return spans
}

func (g *Gazetteer) matchAt(text string, i int, first rune) (Span, bool) {
	for _, p := range g.index[first] {
		end := i + len(p.text)
		if end > len(text) || !strings.EqualFold(text[i:end], p.text) {
			continue
		}
		if !wordEnd(text, end) {
			continue
		}
		return Span{Label: p.label, Start: i, End: end}, true
	}
	return Span{}, false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func wordEnd(text string, end int) bool {
	if end == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}
