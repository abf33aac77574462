package patterns

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// hyphenBreak matches the hyphen, the line break and any indentation of the
// continuation line. The letter before the hyphen is checked by the caller so
// that consecutive breaks ("a-\nb-\nc") are all joined in one pass.
var hyphenBreak = regexp.MustCompile(`-\n\s*\p{L}`)

// FixLinebreakHyphenation joins words hyphenated across a line break
// ("eco-\nnomic" -> "economic") and then unwraps single newlines inside
// paragraphs. Blank lines separating paragraphs are left alone.
func FixLinebreakHyphenation(text string) (string, Counts) {
	s, dehyphen := joinHyphenBreaks(text)
	s, unwrapped := unwrapSingleNewlines(s)
	return s, Counts{
		"dehyphen":               dehyphen,
		"unwrap_single_newlines": unwrapped,
	}
}

func joinHyphenBreaks(s string) (string, int) {
	matches := hyphenBreak.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}

	var b strings.Builder
	b.Grow(len(s))
	last, n := 0, 0
	for _, m := range matches {
		prev, _ := utf8.DecodeLastRuneInString(s[:m[0]])
		if !unicode.IsLetter(prev) {
			continue
		}
		// keep the trailing letter, drop "-\n" and the indentation
		_, size := utf8.DecodeLastRuneInString(s[:m[1]])
		b.WriteString(s[last:m[0]])
		last = m[1] - size
		n++
	}
	b.WriteString(s[last:])
	return b.String(), n
}

// unwrapSingleNewlines replaces a newline with a space when the character
// before it is not a newline and the character after it is not whitespace.
func unwrapSingleNewlines(s string) (string, int) {
	if !strings.Contains(s, "\n") {
		return s, 0
	}

	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' && i > 0 && s[i-1] != '\n' && i+1 < len(s) {
			next, _ := utf8.DecodeRuneInString(s[i+1:])
			if !unicode.IsSpace(next) {
				b.WriteByte(' ')
				n++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String(), n
}
