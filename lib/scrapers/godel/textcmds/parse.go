package textcmds

import (
	"regexp"
	"strings"

	"godelterm/lib/htmlutil"
)

type Headline struct {
	Time string `json:"time,omitempty"`
	Text string `json:"text"`
}

var headlineTimeRegex = regexp.MustCompile(
	`(?i)^(\d{1,2}:\d{2}\s*(AM|PM)?(\s*ET)?|\d{1,2}/\d{1,2}(/\d{2,4})?|\d{4}-\d{2}-\d{2})`,
)

// ParseHeadlines reads news rows out of window text. A row is any
// line starting with a timestamp or date, the marker becomes the
// headline's time.
func ParseHeadlines(text string) []Headline {
	var headlines []Headline
	for _, line := range strings.Split(text, "\n") {
		line = htmlutil.CleanText(line)
		if line == "" {
			continue
		}
		marker := headlineTimeRegex.FindString(line)
		if marker == "" {
			continue
		}
		body := strings.TrimSpace(line[len(marker):])
		if body == "" {
			continue
		}
		headlines = append(headlines, Headline{
			Time: strings.TrimSpace(marker),
			Text: body,
		})
	}
	return headlines
}

var metricKeywords = []string{
	"Revenue",
	"Income",
	"EPS",
	"Margin",
	"Cash",
}

// ParseMetrics keeps the lines that carry a financial figure, keyed
// by the keyword that matched.
func ParseMetrics(text string) map[string][]string {
	metrics := map[string][]string{}
	for _, line := range strings.Split(text, "\n") {
		line = htmlutil.CleanText(line)
		if line == "" {
			continue
		}
		for _, keyword := range metricKeywords {
			if strings.Contains(strings.ToLower(line), strings.ToLower(keyword)) {
				metrics[keyword] = append(metrics[keyword], line)
				break
			}
		}
	}
	if len(metrics) == 0 {
		return nil
	}
	return metrics
}

var quarterRegex = regexp.MustCompile(`Q[1-4]\s*(\d{4}|'?\d{2})`)

// ParseQuarters lists the fiscal quarters mentioned in window text,
// deduplicated in order of first appearance.
func ParseQuarters(text string) []string {
	seen := map[string]struct{}{}
	var quarters []string
	for _, match := range quarterRegex.FindAllString(text, -1) {
		normalized := htmlutil.CleanText(match)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		quarters = append(quarters, normalized)
	}
	return quarters
}
