package patterns

import (
	"regexp"
	"strings"
)

// Wire-service scaffolding. All patterns are line anchored and tolerate
// indentation.
var (
	datelineRe   = regexp.MustCompile(`(?m)^[ \t]*[A-Z][A-Z \t.\-]+[ \t]*\((?:Reuters|REUTERS)\)[ \t]*[-—][ \t]*`)
	wirePrefixRe = regexp.MustCompile(`(?m)^[ \t]*(?:UPDATE[ \t]*\d+|EXCLUSIVE|ANALYSIS|FACTBOX|TIMELINE)[ \t]*[-:][ \t]*`)
	bylineRe     = regexp.MustCompile(`(?m)^[ \t]*By[ \t]+[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)+[ \t]*$`)
	creditRe     = regexp.MustCompile(`(?m)\(Reporting by [^)]+(?:; Editing by [^)]+)?\)[ \t]*$`)
	copyrightRe  = regexp.MustCompile(`(?m)^[ \t]*(?:©|\([cC]\)|Copyright)[^\n]*\bReuters\b[^\n]*$`)
)

var scaffoldRules = []struct {
	name string
	re   *regexp.Regexp
}{
	{"dateline", datelineRe},
	{"wire_prefix", wirePrefixRe},
	{"byline", bylineRe},
	{"credits", creditRe},
	{"copyright", copyrightRe},
}

// StripWireScaffolding removes wire-service boilerplate, in order:
// datelines ("LONDON (Reuters) -"), prefix tags ("UPDATE 2 -",
// "EXCLUSIVE:"), byline lines ("By Jane Doe"), trailing credit blocks
// ("(Reporting by ...; Editing by ...)") and copyright lines. The result is
// trimmed.
//
// Removing one piece can bring another to the start or end of a line
// ("EXCLUSIVE: LONDON (Reuters) - ..."), so the rules are applied until
// none of them matches.
func StripWireScaffolding(text string) (string, Counts) {
	counts := Counts{}
	for _, rule := range scaffoldRules {
		counts[rule.name] = 0
	}

	s := strings.TrimSpace(text)
	for {
		next := s
		for _, rule := range scaffoldRules {
			var n int
			next, n = subCount(rule.re, next, "")
			counts[rule.name] += n
		}
		next = strings.TrimSpace(next)
		if next == s {
			return s, counts
		}
		s = next
	}
}
