package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseFragment(t *testing.T, fragment string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "hello world", CleanText("  hello \n\n  world "))
}

func TestExtractTable(t *testing.T) {
	doc := parseFragment(t, `<table>
		<thead><tr><th>Ticker</th><th>Price</th></tr></thead>
		<tbody>
			<tr><td><span>AAPL</span></td><td><span class="outer"><span>231.5</span></span></td></tr>
			<tr><td>MSFT</td><td>415.2</td></tr>
		</tbody>
	</table>`)

	table := ExtractTable(doc.Find("table"))
	require.Equal(t, []string{"Ticker", "Price"}, table.Headers)
	require.Equal(t, [][]string{
		{"AAPL", "231.5"},
		{"MSFT", "415.2"},
	}, table.Rows)
}

func TestExtractTableNoThead(t *testing.T) {
	doc := parseFragment(t, `<table>
		<tr><th>Firm</th><th>Rating</th></tr>
		<tr><td>KeyBanc</td><td>Overweight</td></tr>
	</table>`)

	table := ExtractTable(doc.Find("table"))
	require.Equal(t, []string{"Firm", "Rating"}, table.Headers)
	require.Equal(t, [][]string{{"KeyBanc", "Overweight"}}, table.Rows)
}

func TestGetAnchors(t *testing.T) {
	doc := parseFragment(t, `<div>
		<a href="/reports/q2.pdf">Q2 <span>deep dive</span></a>
		<a href="://bad url">broken</a>
		<a href="https://research.example.com/b.pdf">other</a>
	</div>`)

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "Q2 deep dive", Href: "/reports/q2.pdf"},
		{Name: "other", Href: "https://research.example.com/b.pdf"},
	}, anchors)
}

func TestExtractTableEmpty(t *testing.T) {
	doc := parseFragment(t, `<div>no table here</div>`)
	table := ExtractTable(doc.Find("table").First())
	require.Empty(t, table.Headers)
	require.Empty(t, table.Rows)

	doc = parseFragment(t, `<table><tr><th>Firm</th></tr></table>`)
	table = ExtractTable(doc.Find("table"))
	require.Equal(t, []string{"Firm"}, table.Headers)
	require.Empty(t, table.Rows)
}

func TestKeyValuePairs(t *testing.T) {
	doc := parseFragment(t, `<div class="mt-2">
		<div class="flex justify-between text-sm"><span>Mkt Cap</span><span>3.1T</span></div>
		<div class="flex justify-between text-sm"><span>P/E</span><span>28.4</span></div>
		<div class="flex justify-between text-sm"><span>only one span</span></div>
	</div>`)

	pairs := KeyValuePairs(doc.Selection, "div.flex.justify-between.text-sm")
	require.Equal(t, map[string]string{
		"Mkt Cap": "3.1T",
		"P/E":     "28.4",
	}, pairs)
}
