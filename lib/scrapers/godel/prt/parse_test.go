package prt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const backtestFixture = `<div id="prt-1-window">
	<div>Backtest complete: <span>50 / 50</span></div>
	<div>
		<span>Top suggestions</span>
		<table>
			<thead><tr><th>Ticker</th><th>Side</th><th>Score</th></tr></thead>
			<tbody>
				<tr><td>NVDA</td><td>Long</td><td>0.82</td></tr>
				<tr><td>TSLA</td><td>Short</td><td>0.75</td></tr>
			</tbody>
		</table>
	</div>
	<div>
		<span>Performance Summary</span>
		<table>
			<thead><tr><th>Bucket</th><th>N</th><th>Long</th><th>Short</th><th>Win rate</th><th>Mean P/L</th><th>Median P/L</th></tr></thead>
			<tbody>
				<tr><td>Top decile</td><td>12</td><td>8</td><td>4</td><td>64%</td><td>1.8%</td><td>1.2%</td></tr>
				<tr><td>All</td><td>50</td><td>30</td><td>20</td><td>55%</td><td>0.6%</td><td>0.4%</td></tr>
			</tbody>
		</table>
	</div>
	<div>Failures in last batch: <strong>3</strong></div>
</div>`

func loadBacktestFixture(t *testing.T) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(backtestFixture))
	require.NoError(t, err)
	return doc
}

func TestHasSuggestions(t *testing.T) {
	require.True(t, hasSuggestions(loadBacktestFixture(t)))

	empty, err := goquery.NewDocumentFromReader(
		strings.NewReader(`<div id="prt-2-window"><span>Top suggestions</span><table><thead><tr><th>Ticker</th></tr></thead><tbody></tbody></table></div>`),
	)
	require.NoError(t, err)
	require.False(t, hasSuggestions(empty))
}

func TestParseSummary(t *testing.T) {
	summary := ParseSummary(loadBacktestFixture(t))
	require.Equal(t, []SummaryRow{
		{Bucket: "Top decile", N: "12", Long: "8", Short: "4", WinRate: "64%", MeanPl: "1.8%", MedianPl: "1.2%"},
		{Bucket: "All", N: "50", Long: "30", Short: "20", WinRate: "55%", MeanPl: "0.6%", MedianPl: "0.4%"},
	}, summary)
}

func TestParseFailures(t *testing.T) {
	require.Equal(t, 3, ParseFailures(loadBacktestFixture(t)))

	none, err := goquery.NewDocumentFromReader(
		strings.NewReader(`<div id="prt-3-window"><div>all good</div></div>`),
	)
	require.NoError(t, err)
	require.Equal(t, 0, ParseFailures(none))
}

func TestNewCsvFile(t *testing.T) {
	require.Equal(t, "", NewCsvFile([]string{"a.csv"}, []string{"a.csv"}))
	require.Equal(t, "b.csv", NewCsvFile([]string{"a.csv"}, []string{"a.csv", "b.csv"}))
	require.Equal(t, "", NewCsvFile([]string{"a.csv", "b.csv"}, []string{"a.csv"}))
}

func TestReadSuggestionsCsv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suggestions.csv")
	err := os.WriteFile(path, []byte("ticker,side,score\nNVDA,Long,0.82\nTSLA,Short,0.75\n"), 0644)
	require.NoError(t, err)

	headers, rows, err := ReadSuggestionsCsv(path)
	require.NoError(t, err)
	require.Equal(t, []string{"ticker", "side", "score"}, headers)
	require.Equal(t, [][]string{
		{"NVDA", "Long", "0.82"},
		{"TSLA", "Short", "0.75"},
	}, rows)
}
