package patterns

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// mojibakeLeads maps the Windows-1252 reading of a UTF-8 lead byte to the
// length of the sequence it starts. Only leads of Latin-1 letters and
// symbols (Â, Ã) and of general punctuation (â) are considered.
var mojibakeLeads = map[rune]int{'Â': 2, 'Ã': 2, 'â': 3}

var (
	quoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
	dashReplacer = strings.NewReplacer("—", "-", "–", "-")
)

// NormalizeUnicode repairs encoding artifacts and harmonizes punctuation:
//
//   - mojibake repair (UTF-8 read as Windows-1252), invalid byte
//     sequences replaced with U+FFFD, NFC composition
//   - NBSP to space
//   - curly quotes to straight quotes
//   - en and em dashes to '-'
//
// Quote, dash and NBSP counts are taken on the input before repair.
func NormalizeUnicode(text string) (string, Counts) {
	counts := Counts{
		"nbsp":          strings.Count(text, "\u00a0"),
		"curly_quotes":  countAny(text, "“”‘’"),
		"long_dashes":   countAny(text, "—–"),
		"mojibake_runs": 0,
		"invalid_utf8":  0,
	}

	s := text
	if !utf8.ValidString(s) {
		counts["invalid_utf8"] = 1
		s = strings.ToValidUTF8(s, "\ufffd")
	}

	s = norm.NFC.String(s)
	for {
		repaired, n := repairMojibake(s)
		if n == 0 {
			break
		}
		counts["mojibake_runs"] += n
		s = norm.NFC.String(repaired)
	}

	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = quoteReplacer.Replace(s)
	s = dashReplacer.Replace(s)
	return s, counts
}

// repairMojibake rewrites UTF-8 sequences that were decoded as
// Windows-1252: a lead from mojibakeLeads followed by characters whose
// Windows-1252 bytes are UTF-8 continuation bytes. A sequence is only
// rewritten when it decodes to a character such text plausibly contained,
// so "CAFÉ’S" stays as it is while "cafÃ©" becomes "café". It reports how
// many runs of adjacent sequences it rewrote.
func repairMojibake(s string) (string, int) {
	var out []byte
	runs, lastEnd := 0, -1
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if want, ok := mojibakeLeads[r]; ok {
			if fixed, n := decodeMojibake(s[i+size:], byte(r), want); n > 0 {
				if out == nil {
					out = append(make([]byte, 0, len(s)), s[:i]...)
				}
				if i != lastEnd {
					runs++
				}
				out = utf8.AppendRune(out, fixed)
				i += size + n
				lastEnd = i
				continue
			}
		}
		if out != nil {
			out = append(out, s[i:i+size]...)
		}
		i += size
	}
	if out == nil {
		return s, 0
	}
	return string(out), runs
}

// decodeMojibake reads want-1 continuation characters from rest and decodes
// them together with lead as UTF-8. It returns the decoded rune and the
// number of bytes of rest consumed, or 0 when rest does not continue a
// plausible sequence.
func decodeMojibake(rest string, lead byte, want int) (rune, int) {
	raw := []byte{lead}
	used := 0
	for len(raw) < want {
		r, size := utf8.DecodeRuneInString(rest[used:])
		if size == 0 {
			return 0, 0
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok || b < 0x80 || b > 0xBF {
			return 0, 0
		}
		raw = append(raw, b)
		used += size
	}
	fixed, size := utf8.DecodeRune(raw)
	if fixed == utf8.RuneError || size != len(raw) || !plausibleRepair(fixed) {
		return 0, 0
	}
	return fixed, used
}

// plausibleRepair limits repairs to Latin-1 letters and symbols, general
// punctuation, currency signs and letterlike symbols such as ™.
func plausibleRepair(r rune) bool {
	switch {
	case r >= 0xA0 && r <= 0xFF:
		return true
	case r >= 0x2000 && r <= 0x206F:
		return true
	case r >= 0x20A0 && r <= 0x20CF:
		return true
	case r >= 0x2100 && r <= 0x214F:
		return true
	}
	return false
}

func countAny(s, chars string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			n++
		}
	}
	return n
}
