package prt

import (
	"encoding/csv"
	"os"
	"regexp"
	"strconv"
	"strings"

	"godelterm/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// SummaryRow is one bucket of the performance summary table.
type SummaryRow struct {
	Bucket   string `json:"bucket"`
	N        string `json:"n"`
	Long     string `json:"long"`
	Short    string `json:"short"`
	WinRate  string `json:"win_rate"`
	MeanPl   string `json:"mean_pl"`
	MedianPl string `json:"median_pl"`
}

// tableNearLabel finds the first table inside or after the element
// whose text matches the label, case-insensitive.
func tableNearLabel(doc *goquery.Document, label string) *goquery.Selection {
	var table *goquery.Selection
	needle := strings.ToUpper(label)
	doc.Find("span, div, h2, h3, strong").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := strings.ToUpper(htmlutil.CleanText(el.Text()))
		if text != needle && !strings.HasPrefix(text, needle) {
			return true
		}
		if el.Is("div") && el.Find("table").Length() > 0 && len(text) > len(needle)+20 {
			// a big container that merely contains the label, keep
			// looking for the label element itself
			return true
		}
		candidate := el.NextAllFiltered("table").First()
		if candidate.Length() == 0 {
			candidate = el.Parent().Find("table").First()
		}
		if candidate.Length() > 0 {
			table = candidate
			return false
		}
		return true
	})
	return table
}

func hasSuggestions(doc *goquery.Document) bool {
	table := tableNearLabel(doc, "Top suggestions")
	if table == nil {
		return false
	}
	return len(htmlutil.ExtractTable(table).Rows) > 0
}

func ParseSummary(doc *goquery.Document) []SummaryRow {
	table := tableNearLabel(doc, "Performance Summary")
	if table == nil {
		return nil
	}

	var summary []SummaryRow
	for _, row := range htmlutil.ExtractTable(table).Rows {
		if len(row) < 7 {
			continue
		}
		summary = append(summary, SummaryRow{
			Bucket:   row[0],
			N:        row[1],
			Long:     row[2],
			Short:    row[3],
			WinRate:  row[4],
			MeanPl:   row[5],
			MedianPl: row[6],
		})
	}
	return summary
}

var failuresRegex = regexp.MustCompile(`(?i)failures in last batch`)

// ParseFailures reads the "Failures in last batch" counter, zero when
// the section is missing.
func ParseFailures(doc *goquery.Document) int {
	failures := 0
	doc.Find("div, span, p").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		own := htmlutil.CleanText(el.Text())
		if !failuresRegex.MatchString(own) || len(own) > 100 {
			return true
		}
		count := htmlutil.CleanText(el.Find("strong").First().Text())
		if count == "" {
			return true
		}
		n, err := strconv.Atoi(count)
		if err != nil {
			return true
		}
		failures = n
		return false
	})
	return failures
}

// NewCsvFile returns the name of a file present in after but not in
// before, "" when nothing new appeared. Partial downloads keep their
// temporary extension so they never match.
func NewCsvFile(before, after []string) string {
	seen := make(map[string]struct{}, len(before))
	for _, name := range before {
		seen[name] = struct{}{}
	}
	for _, name := range after {
		if _, ok := seen[name]; !ok {
			return name
		}
	}
	return ""
}

func ReadSuggestionsCsv(path string) (headers []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}
