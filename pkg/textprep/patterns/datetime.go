package patterns

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var months = map[string]string{
	"january":   "01",
	"february":  "02",
	"march":     "03",
	"april":     "04",
	"may":       "05",
	"june":      "06",
	"july":      "07",
	"august":    "08",
	"september": "09",
	"sept":      "09",
	"october":   "10",
	"november":  "11",
	"december":  "12",
	"jan":       "01",
	"feb":       "02",
	"mar":       "03",
	"apr":       "04",
	"jun":       "06",
	"jul":       "07",
	"aug":       "08",
	"sep":       "09",
	"oct":       "10",
	"nov":       "11",
	"dec":       "12",
}

// monthAlternation lists full names before their abbreviations so that
// leftmost-first matching prefers "september" over "sept" over "sep".
const monthAlternation = `january|february|march|april|may|june|july|august|september|sept|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec`

var (
	// September 29, 2025
	monthDayYear = regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2}),\s*(\d{4})\b`)
	// 29 September 2025
	dayMonthYear = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthAlternation + `)\.?\s+(\d{4})\b`)
	// 3:05 pm
	clockTime = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)\b`)
	// a second meridiem right after a time ("12:30 am pm")
	meridiemAhead = regexp.MustCompile(`(?i)^\s*(?:am|pm)\b`)

	percentSpace = regexp.MustCompile(`(\d)\s+%`)
	dollarSpace  = regexp.MustCompile(`\$\s+(\d)`)
)

// NormalizeDatesTimes rewrites common date and time formats and tightens
// percent and currency spacing:
//
//   - "September 29, 2025" and "29 Sept. 2025" become "2025-09-29"
//   - "3:05 pm" becomes "15:05"
//   - "15 %" becomes "15%" and "$ 10" becomes "$10"
//
// Dates whose day is outside 1..31 are left as they are.
func NormalizeDatesTimes(text string) (string, Counts) {
	counts := Counts{"dates": 0}

	s := replaceDates(monthDayYear, text, 1, 2, 3, counts)
	s = replaceDates(dayMonthYear, s, 2, 1, 3, counts)

	s, counts["times"] = replaceClockTimes(s)

	s, counts["percent_space_fixes"] = subCount(percentSpace, s, "${1}%")
	s, counts["dollar_space_fixes"] = subCount(dollarSpace, s, "$$${1}")
	return s, counts
}

// replaceClockTimes rewrites 12-hour clock times to 24-hour form. Hours
// outside 1..12 and times followed by another am/pm are ambiguous and left
// as they are.
func replaceClockTimes(s string) (string, int) {
	locs := clockTime.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return s, 0
	}
	var b strings.Builder
	last, n := 0, 0
	for _, loc := range locs {
		hour, err := strconv.Atoi(s[loc[2]:loc[3]])
		if err != nil || hour < 1 || hour > 12 || meridiemAhead.MatchString(s[loc[1]:]) {
			continue
		}
		hour %= 12
		if strings.EqualFold(s[loc[6]:loc[7]], "pm") {
			hour += 12
		}
		b.WriteString(s[last:loc[0]])
		fmt.Fprintf(&b, "%02d:%s", hour, s[loc[4]:loc[5]])
		last = loc[1]
		n++
	}
	b.WriteString(s[last:])
	return b.String(), n
}

// replaceDates rewrites matches of re to ISO dates. The group arguments give
// the submatch positions of month, day and year.
func replaceDates(re *regexp.Regexp, s string, monthGroup, dayGroup, yearGroup int, counts Counts) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		g := re.FindStringSubmatch(m)
		month, ok := months[strings.ToLower(g[monthGroup])]
		if !ok {
			return m
		}
		day, err := strconv.Atoi(g[dayGroup])
		if err != nil || day < 1 || day > 31 {
			return m
		}
		counts["dates"]++
		return fmt.Sprintf("%s-%s-%02d", g[yearGroup], month, day)
	})
}
