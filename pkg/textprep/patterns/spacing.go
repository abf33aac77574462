package patterns

import (
	"regexp"
	"strings"
)

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([,.;:?!])`)
	missingSpace     = regexp.MustCompile(`([.?!])([A-Za-z"])`)
	multiSpace       = regexp.MustCompile(`[ \t]{2,}`)
	multiPunct       = regexp.MustCompile(`([?!]){2,}`)
	multiNewline     = regexp.MustCompile(`\n{3,}`)
)

// NormalizeSpacingPunct applies conservative spacing rules:
//
//   - no whitespace before , . ; : ? !
//   - one space between a sentence ender and a following letter or quote
//   - runs of spaces and tabs collapse to one space
//   - runs of ? and ! collapse to their last mark
//   - 3+ newlines collapse to a paragraph break
//
// Leading and trailing whitespace of the document is removed.
func NormalizeSpacingPunct(text string) (string, Counts) {
	counts := Counts{}
	s := text
	s, counts["spaces_before_punct"] = subCount(spaceBeforePunct, s, "$1")
	s, counts["missing_space_after_ender"] = subCount(missingSpace, s, "$1 $2")
	s, counts["multispaces_collapsed"] = subCount(multiSpace, s, " ")
	s, counts["multi_punct_reduced"] = subCount(multiPunct, s, "$1")
	s, counts["multinewlines_collapsed"] = subCount(multiNewline, strings.TrimSpace(s), "\n\n")
	return s, counts
}
