package most

import (
	"godelterm/lib/htmlutil"
	"godelterm/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type Movers struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// Column collects one named column across all rows, skipping rows
// where the column is empty.
func (m Movers) Column(name string) []string {
	var values []string
	for _, row := range m.Rows {
		if v := row[name]; v != "" {
			values = append(values, v)
		}
	}
	return values
}

// ParseMovers reads the movers table out of a window snapshot.
// Abbreviated volume and value figures (e.g. "12.3M") are expanded to
// plain numbers.
func ParseMovers(doc *goquery.Document) Movers {
	table := htmlutil.ExtractTable(doc.Find("table").First())

	movers := Movers{Headers: table.Headers}
	for _, row := range table.Rows {
		entry := map[string]string{}
		for i, cell := range row {
			if i >= len(table.Headers) {
				break
			}
			entry[table.Headers[i]] = textutil.CleanNumericCell(cell)
		}
		if len(entry) > 0 {
			movers.Rows = append(movers.Rows, entry)
		}
	}
	return movers
}
