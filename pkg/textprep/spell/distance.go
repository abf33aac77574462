package spell

import "github.com/xrash/smetrics"

// Distance computes an edit distance between two words.
type Distance interface {
	Distance(a, b string) int
}

// Levenshtein is unit-cost insert/delete/substitute distance over runes.
type Levenshtein struct{}

// Distance maps each distinct rune to a single byte so the byte-oriented
// Wagner-Fischer implementation counts runes, not UTF-8 bytes. Words with
// more than 256 distinct runes are compared byte-wise.
func (Levenshtein) Distance(a, b string) int {
	ea, eb, ok := byteAlphabet(a, b)
	if !ok {
		return smetrics.WagnerFischer(a, b, 1, 1, 1)
	}
	return smetrics.WagnerFischer(ea, eb, 1, 1, 1)
}

func byteAlphabet(a, b string) (string, string, bool) {
	codes := make(map[rune]byte)
	encode := func(s string) ([]byte, bool) {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			c, seen := codes[r]
			if !seen {
				if len(codes) == 256 {
					return nil, false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out = append(out, c)
		}
		return out, true
	}
	ea, ok := encode(a)
	if !ok {
		return "", "", false
	}
	eb, ok := encode(b)
	if !ok {
		return "", "", false
	}
	return string(ea), string(eb), true
}
