// Package patterns holds the rewrite rules of the cleaning pipeline.
//
// Every rule set is a pure function from text to text that also reports how
// many replacements each of its sub-rules performed. Rule sets keep no state
// and are safe for concurrent use. Each one is idempotent: applying it to its
// own output changes nothing.
package patterns

import (
	"regexp"
	"sort"
)

// Counts maps a sub-rule name to the number of replacements it performed.
type Counts map[string]int

// Rewrite is the signature shared by every rule set in this package.
type Rewrite func(text string) (string, Counts)

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Names returns the rule names in sorted order.
func (c Counts) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// subCount replaces every match of re and reports how many matches there were.
func subCount(re *regexp.Regexp, s, repl string) (string, int) {
	n := len(re.FindAllStringIndex(s, -1))
	if n == 0 {
		return s, 0
	}
	return re.ReplaceAllString(s, repl), n
}
