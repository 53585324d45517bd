package most

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const moversFixture = `<div id="most-1-window">
	<div class="tabs">
		<div class="cursor-pointer">ACTIVE</div>
		<div class="cursor-pointer">GAINERS</div>
		<div class="cursor-pointer">LOSERS</div>
		<div class="cursor-pointer">VALUE</div>
	</div>
	<select><option>10</option><option>25</option></select>
	<table>
		<thead>
			<tr><th>Ticker</th><th>Last</th><th>Chg %</th><th>Volume</th></tr>
		</thead>
		<tbody>
			<tr><td><span>NVDA</span></td><td><span>178.20</span></td><td><span>+2.4%</span></td><td><span>312.5M</span></td></tr>
			<tr><td><span>TSLA</span></td><td><span>342.10</span></td><td><span>-1.2%</span></td><td><span>98.1M</span></td></tr>
		</tbody>
	</table>
</div>`

func TestParseMovers(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(moversFixture))
	require.NoError(t, err)

	movers := ParseMovers(doc)
	require.Equal(t, []string{"Ticker", "Last", "Chg %", "Volume"}, movers.Headers)
	require.Len(t, movers.Rows, 2)

	require.Equal(t, map[string]string{
		"Ticker": "NVDA",
		"Last":   "178.2",
		"Chg %":  "2.4",
		"Volume": "312500000",
	}, movers.Rows[0])
	require.Equal(t, "TSLA", movers.Rows[1]["Ticker"])
	require.Equal(t, "-1.2", movers.Rows[1]["Chg %"])
}

func TestMoversColumn(t *testing.T) {
	movers := Movers{
		Headers: []string{"Ticker"},
		Rows: []map[string]string{
			{"Ticker": "NVDA"},
			{"Ticker": ""},
			{"Ticker": "TSLA"},
		},
	}
	require.Equal(t, []string{"NVDA", "TSLA"}, movers.Column("Ticker"))
}
