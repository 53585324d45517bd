package research

import (
	"regexp"
	"strings"

	"godelterm/lib/textutil"

	"github.com/antzucaro/matchr"
)

// Report is one research entry listed in the RES window.
type Report struct {
	Date     string `json:"date"`
	Ticker   string `json:"ticker"`
	Provider string `json:"provider,omitempty"`
	Title    string `json:"title,omitempty"`
}

// firms the terminal sources research from, used to split the
// provider out of the flattened row text
var KnownProviders = []string{
	"Truist Securities",
	"JPMorgan",
	"KeyBanc",
	"RBC",
	"Jefferies",
	"Goldman Sachs",
	"Morgan Stanley",
	"Bank of America",
	"UBS",
	"Deutsche Bank",
}

var (
	dateRegex   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	tickerRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9\.]*$`)
)

// ParseReports pulls report entries out of the window's inner text.
// The list renders each row as one run of text starting with an ISO
// date, so dates double as row anchors. The ticker and provider are
// concatenated without separators, so the provider match doubles as
// the ticker boundary.
func ParseReports(text string) []Report {
	text = strings.ReplaceAll(text, "\n", "")
	locations := dateRegex.FindAllStringIndex(text, -1)

	var reports []Report
	for i, loc := range locations {
		end := len(text)
		if i+1 < len(locations) {
			end = locations[i+1][0]
		}
		date := text[loc[0]:loc[1]]
		rest := text[loc[1]:end]

		report := Report{Date: date}
		provider, providerIdx := findProvider(rest)
		if providerIdx >= 0 {
			report.Ticker = strings.TrimSpace(rest[:providerIdx])
			report.Provider = provider
			report.Title = strings.TrimSpace(rest[providerIdx+len(provider):])
		} else {
			report.Ticker, report.Title = splitTicker(rest)
		}

		if tickerRegex.MatchString(report.Ticker) {
			reports = append(reports, report)
		}
	}
	return reports
}

// splitTicker peels the leading ticker off a row without a known
// provider. The ticker is the leading run of uppercase letters,
// digits and dots, except when the run bleeds into a capitalized
// word ("AAPLMorgan"), then the word's first letter is given back.
func splitTicker(rest string) (string, string) {
	i := 0
	for i < len(rest) {
		c := rest[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '.' {
			i++
			continue
		}
		break
	}
	if i > 1 && i < len(rest) && rest[i] >= 'a' && rest[i] <= 'z' {
		i--
	}
	return rest[:i], strings.TrimSpace(rest[i:])
}

// findProvider locates the earliest known firm in the row text and
// returns it with its byte offset, or ("", -1). Near-miss spellings
// right after a plausible ticker are matched with Jaro-Winkler.
func findProvider(text string) (string, int) {
	lowered := strings.ToLower(text)
	bestIdx := -1
	best := ""
	for _, firm := range KnownProviders {
		idx := strings.Index(lowered, strings.ToLower(firm))
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			bestIdx = idx
			best = firm
		}
	}
	if bestIdx >= 0 {
		return best, bestIdx
	}

	ticker, _ := splitTicker(text)
	offset := len(ticker)
	for _, firm := range KnownProviders {
		if len(text) < offset+len(firm) {
			continue
		}
		candidate := text[offset : offset+len(firm)]
		score := matchr.JaroWinkler(
			textutil.NormalizeName(firm),
			textutil.NormalizeName(candidate),
			false,
		)
		if score >= 0.92 {
			return candidate, offset
		}
	}
	return "", -1
}

// FilterByTicker keeps only reports for the given ticker, empty
// matches everything.
func FilterByTicker(reports []Report, ticker string) []Report {
	if ticker == "" {
		return reports
	}
	var filtered []Report
	for _, r := range reports {
		if strings.EqualFold(r.Ticker, ticker) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
