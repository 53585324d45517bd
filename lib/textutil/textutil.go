package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// ParseAbbrevNumber parses numbers the terminal abbreviates with
// K/M/B suffixes, e.g. "1.5M" -> 1500000. A trailing percent sign
// is stripped. The second return is false when the input is not
// numeric at all.
func ParseAbbrevNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	multiplier := float64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		multiplier = 1e3
		s = s[:len(s)-1]
	case 'M', 'm':
		multiplier = 1e6
		s = s[:len(s)-1]
	case 'B', 'b':
		multiplier = 1e9
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

// CleanNumericCell normalizes a scraped table cell, turning
// abbreviated numbers into their full form and leaving everything
// else untouched.
func CleanNumericCell(s string) string {
	value, ok := ParseAbbrevNumber(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
