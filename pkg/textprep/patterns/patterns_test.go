package patterns

import "testing"

func TestNormalizeUnicode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		counts Counts
	}{
		{
			name:   "curly quotes and dashes",
			input:  "He said “hi” — then ‘left’ – fast",
			want:   `He said "hi" - then 'left' - fast`,
			counts: Counts{"curly_quotes": 4, "long_dashes": 2},
		},
		{
			name:   "nbsp",
			input:  "10\u00a0km",
			want:   "10 km",
			counts: Counts{"nbsp": 1},
		},
		{
			name:   "latin-1 mojibake",
			input:  "cafÃ© society",
			want:   "café society",
			counts: Counts{"mojibake_runs": 1},
		},
		{
			name:   "mojibake apostrophe is repaired then straightened",
			input:  "Itâ€™s late",
			want:   "It's late",
			counts: Counts{"mojibake_runs": 1, "curly_quotes": 0},
		},
		{
			name:   "double encoded",
			input:  "ÃƒÂ©",
			want:   "é",
			counts: Counts{"mojibake_runs": 2},
		},
		{
			name:   "legitimate capital A tilde is kept",
			input:  "SÃO PAULO",
			want:   "SÃO PAULO",
			counts: Counts{"mojibake_runs": 0},
		},
		{
			name:   "capital E acute before a curly apostrophe",
			input:  "CAFÉ’S MENU",
			want:   "CAFÉ'S MENU",
			counts: Counts{"mojibake_runs": 0, "curly_quotes": 1},
		},
		{
			name:   "accented capital inside curly quotes",
			input:  "“JOSÉ” said",
			want:   `"JOSÉ" said`,
			counts: Counts{"mojibake_runs": 0, "curly_quotes": 2},
		},
		{
			name:   "accented capital before nbsp",
			input:  "JOSÉ\u00a0GARCÍA",
			want:   "JOSÉ GARCÍA",
			counts: Counts{"mojibake_runs": 0, "nbsp": 1},
		},
		{
			name:   "mojibake on both sides of a curly quote",
			input:  "Ã©’Ã©",
			want:   "é'é",
			counts: Counts{"mojibake_runs": 2, "curly_quotes": 1},
		},
		{
			name:   "invalid utf-8",
			input:  "a\xffb",
			want:   "a\ufffdb",
			counts: Counts{"invalid_utf8": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, counts := NormalizeUnicode(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeUnicode(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for rule, n := range tt.counts {
				if counts[rule] != n {
					t.Errorf("count %s = %d, want %d", rule, counts[rule], n)
				}
			}
		})
	}
}

func TestStripWireScaffolding(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		counts Counts
	}{
		{
			name:   "dateline and byline",
			input:  "LONDON (Reuters) - The cool weather continued.\nBy Jane Doe",
			want:   "The cool weather continued.",
			counts: Counts{"dateline": 1, "byline": 1},
		},
		{
			name:   "prefix and credits",
			input:  "UPDATE 2 - Oil prices rise\nPrices rose.\n(Reporting by Jane Doe; Editing by John Smith)",
			want:   "Oil prices rise\nPrices rose.",
			counts: Counts{"wire_prefix": 1, "credits": 1},
		},
		{
			name:   "exclusive tag",
			input:  "EXCLUSIVE: Bank weighs sale",
			want:   "Bank weighs sale",
			counts: Counts{"wire_prefix": 1},
		},
		{
			name:   "copyright line",
			input:  "Shares fell.\n© Reuters 2020. All rights reserved.",
			want:   "Shares fell.",
			counts: Counts{"copyright": 1},
		},
		{
			name:   "tag before a dateline",
			input:  "EXCLUSIVE: LONDON (Reuters) - Shares rose.",
			want:   "Shares rose.",
			counts: Counts{"dateline": 1, "wire_prefix": 1},
		},
		{
			name:   "chained tags",
			input:  "UPDATE 2 - EXCLUSIVE: Shares rose.",
			want:   "Shares rose.",
			counts: Counts{"wire_prefix": 2},
		},
		{
			name:   "indented dateline",
			input:  " LONDON (Reuters) - Shares rose.",
			want:   "Shares rose.",
			counts: Counts{"dateline": 1},
		},
		{
			name:   "scaffolding only",
			input:  "\n\nUPDATE 2 - LONDON (Reuters) - ",
			want:   "",
			counts: Counts{"dateline": 1, "wire_prefix": 1},
		},
		{
			name:   "mentions of the agency in prose are kept",
			input:  "He told Reuters on Monday.",
			want:   "He told Reuters on Monday.",
			counts: Counts{"copyright": 0, "dateline": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, counts := StripWireScaffolding(tt.input)
			if got != tt.want {
				t.Errorf("StripWireScaffolding(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for rule, n := range tt.counts {
				if counts[rule] != n {
					t.Errorf("count %s = %d, want %d", rule, counts[rule], n)
				}
			}
		})
	}
}

func TestFixLinebreakHyphenation(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		dehyphen int
		unwrap   int
	}{
		{"eco-\nnomic growth\ncontinued today.", "economic growth continued today.", 1, 1},
		{"para one\n\npara two", "para one\n\npara two", 0, 0},
		{"line-\n   break", "linebreak", 1, 0},
		{"a-\nb-\nc", "abc", 2, 0},
		{"1-\n2", "1- 2", 0, 1},
		{"trailing\n", "trailing\n", 0, 0},
	}

	for _, tt := range tests {
		got, counts := FixLinebreakHyphenation(tt.input)
		if got != tt.want {
			t.Errorf("FixLinebreakHyphenation(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if counts["dehyphen"] != tt.dehyphen {
			t.Errorf("%q: dehyphen = %d, want %d", tt.input, counts["dehyphen"], tt.dehyphen)
		}
		if counts["unwrap_single_newlines"] != tt.unwrap {
			t.Errorf("%q: unwrap = %d, want %d", tt.input, counts["unwrap_single_newlines"], tt.unwrap)
		}
	}
}

func TestNormalizeSpacingPunct(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello , world !! How are you??", "Hello, world! How are you?"},
		{"End.Next", "End. Next"},
		{`He said."Go"`, `He said. "Go"`},
		{"a   b\t\tc", "a b c"},
		{"p1\n\n\n\np2", "p1\n\np2"},
		{"  padded  ", "padded"},
		{"What?!?", "What?"},
	}

	for _, tt := range tests {
		got, _ := NormalizeSpacingPunct(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeSpacingPunct(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	_, counts := NormalizeSpacingPunct("Hello , world !! How are you??")
	if counts["spaces_before_punct"] != 2 {
		t.Errorf("spaces_before_punct = %d, want 2", counts["spaces_before_punct"])
	}
	if counts["multi_punct_reduced"] != 2 {
		t.Errorf("multi_punct_reduced = %d, want 2", counts["multi_punct_reduced"])
	}
}

func TestNormalizeDatesTimes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			"Sept. 29, 2025 at 3:05 pm, fees were 15 % of $ 10.",
			"2025-09-29 at 15:05, fees were 15% of $10.",
		},
		{"on 29 September 2025", "on 2025-09-29"},
		{"on 4 jan. 2024", "on 2024-01-04"},
		{"MARCH 5,2021", "2021-03-05"},
		{"March 45, 2020", "March 45, 2020"},
		{"10:30 AM", "10:30"},
		{"12:15 am", "00:15"},
		{"12:15 pm", "12:15"},
		{"13:05 pm", "13:05 pm"},
		{"0:30 am", "0:30 am"},
		{"at 12:30 am pm", "at 12:30 am pm"},
		{"at 11:30 am pm", "at 11:30 am pm"},
		{"1:00 am to 2:00 pm", "01:00 to 14:00"},
	}

	for _, tt := range tests {
		got, _ := NormalizeDatesTimes(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeDatesTimes(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	_, counts := NormalizeDatesTimes("Sept. 29, 2025 at 3:05 pm, fees were 15 % of $ 10.")
	want := Counts{"dates": 1, "times": 1, "percent_space_fixes": 1, "dollar_space_fixes": 1}
	for rule, n := range want {
		if counts[rule] != n {
			t.Errorf("count %s = %d, want %d", rule, counts[rule], n)
		}
	}
}

// rewriteInputs mixes scaffolding, mojibake, punctuation and newline
// fragments that interact across passes.
var rewriteInputs = []string{
	"",
	"plain text",
	"LONDON (Reuters) - The coool weather continued.\nBy Jane Doe",
	"He said “hi” — then ‘left’.Next line ,here !!",
	"ÃƒÂ© cafÃ© Itâ€™s ok",
	"eco-\nnomic a-\nb-\nc\nnext\n\n\n\npara",
	"Hi !?! there . .. ,, x",
	"Sept. 29, 2025 at 3:05 pm; 15 % of $ 10 on 1 May 2020",
	"a\xffb\t\t c\n \n",
	"U.S.officials said.\"Yes\"",
	"EXCLUSIVE: LONDON (Reuters) - Shares rose.",
	"UPDATE 2 - EXCLUSIVE: Shares rose.",
	" LONDON (Reuters) - Shares rose.",
	"\n\nUPDATE 2 - LONDON (Reuters) - ",
	"Shares rose.\n  By Jane Doe\n© Reuters 2020",
	"CAFÉ’S MENU",
	"“JOSÉ” said",
	"JOSÉ\u00a0GARCÍA",
	"Ã©’Ã©",
	"â€œquotedâ€ Ã‚Â",
	"at 12:30 am pm",
	"12:15 am 0:30 am 13:05 pm",
}

var rewrites = map[string]Rewrite{
	"unicode":     NormalizeUnicode,
	"scaffolding": StripWireScaffolding,
	"linebreak":   FixLinebreakHyphenation,
	"spacing":     NormalizeSpacingPunct,
	"datetime":    NormalizeDatesTimes,
}

func checkIdempotent(t *testing.T, name string, f Rewrite, in string) {
	t.Helper()
	once, _ := f(in)
	twice, counts := f(once)
	if twice != once {
		t.Errorf("%s not idempotent on %q: %q then %q", name, in, once, twice)
	}
	if counts.Total() != 0 {
		t.Errorf("%s reported changes on second pass for %q: %v", name, in, counts)
	}
}

func TestRewritesAreIdempotent(t *testing.T) {
	for name, f := range rewrites {
		for _, in := range rewriteInputs {
			checkIdempotent(t, name, f, in)
		}
	}
}

func fuzzRewrite(f *testing.F, name string) {
	for _, in := range rewriteInputs {
		f.Add(in)
	}
	rw := rewrites[name]
	f.Fuzz(func(t *testing.T, in string) {
		checkIdempotent(t, name, rw, in)
	})
}

func FuzzNormalizeUnicode(f *testing.F)        { fuzzRewrite(f, "unicode") }
func FuzzStripWireScaffolding(f *testing.F)    { fuzzRewrite(f, "scaffolding") }
func FuzzFixLinebreakHyphenation(f *testing.F) { fuzzRewrite(f, "linebreak") }
func FuzzNormalizeSpacingPunct(f *testing.F)   { fuzzRewrite(f, "spacing") }
func FuzzNormalizeDatesTimes(f *testing.F)     { fuzzRewrite(f, "datetime") }

func TestCountsHelpers(t *testing.T) {
	c := Counts{"b": 2, "a": 1}
	if c.Total() != 3 {
		t.Errorf("Total = %d, want 3", c.Total())
	}
	names := c.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names = %v, want [a b]", names)
	}
}
