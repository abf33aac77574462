package spell

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// Token is a word or punctuation unit with its byte offset in the input.
type Token struct {
	Text    string
	Offset  int
	IsAlpha bool
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Tokenizer splits text into tokens.
//
// Exact reports whether the offsets of returned tokens can be used to splice
// replacements back into the input.
type Tokenizer interface {
	Tokenize(text string) []Token
	Exact() bool
}

// UAX29Tokenizer segments text on Unicode word boundaries (UAX #29).
// Whitespace segments are dropped; every other segment becomes a token.
type UAX29Tokenizer struct{}

func (UAX29Tokenizer) Exact() bool { return true }

func (UAX29Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	seg := words.FromString(text)
	for seg.Next() {
		value := seg.Value()
		if isSpace(value) {
			continue
		}
		tokens = append(tokens, Token{
			Text:    value,
			Offset:  seg.Start(),
			IsAlpha: isLetters(value),
		})
	}
	return tokens
}

// Word characters include every script's letters, marks and digits, so
// "café" stays one token as it does under UAX #29.
var (
	fallbackTokenRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+|[^\p{L}\p{M}\p{N}_\s\p{Z}]`)
	fallbackAlphaRe = regexp.MustCompile(`^\p{L}(?:[\p{L}\-']*\p{L})?$`)
)

// RegexpTokenizer is the fallback used when no linguistic tokenizer is
// available. Its offsets are not trusted for reconstruction.
type RegexpTokenizer struct{}

func (RegexpTokenizer) Exact() bool { return false }

func (RegexpTokenizer) Tokenize(text string) []Token {
	locs := fallbackTokenRe.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		value := text[loc[0]:loc[1]]
		tokens = append(tokens, Token{
			Text:    value,
			Offset:  loc[0],
			IsAlpha: fallbackAlphaRe.MatchString(value),
		})
	}
	return tokens
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// isLetters reports whether s is non-empty valid UTF-8 made only of letters.
func isLetters(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
