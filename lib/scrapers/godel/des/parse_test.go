package des

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func TestParseSecurity(t *testing.T) {
	doc := loadFixture(t, "des_window.html")
	security := ParseSecurity(doc)

	require.Equal(t, "AAPL", security.Ticker)

	require.Equal(t, "Apple Inc", security.Company.Name)
	require.Equal(t, "US Equity", security.Company.Badge)
	require.Equal(t, "https://cdn.godelterminal.com/logos/aapl.png", security.Company.LogoUrl)
	require.Equal(t, "https://www.apple.com", security.Company.Website)
	require.Equal(t, []string{
		"ONE APPLE PARK WAY",
		"CUPERTINO, CA 95014",
		"UNITED STATES",
	}, security.Company.Address)
	require.Equal(t, "TIM COOK", security.Company.Ceo)

	require.Contains(t, security.Description, "Apple Inc. designs, manufactures")
	require.NotContains(t, security.Description, "See more")

	require.Equal(t, map[string]string{
		"Q1, Dec 25": "2.35",
		"Q2, Mar 26": "1.68",
	}, security.EpsEstimates)

	require.Equal(t, []AnalystRating{
		{Firm: "Morgan Stanley", Analyst: "E. Woodring", Rating: "Overweight", Target: "273", Date: "08/01/25"},
		{Firm: "JPMorgan", Analyst: "S. Chatterjee", Rating: "Overweight", Target: "255", Date: "07/28/25"},
	}, security.AnalystRatings)

	require.Equal(t, map[string]map[string]string{
		"Price": {
			"Last": "231.50",
			"Open": "229.00",
		},
		"Valuation": {
			"Mkt Cap": "3.1T",
			"P/E":     "28.4",
		},
	}, security.Snapshot)
}

func TestParseSecurityEmpty(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(
		// a window that failed to render any content
		strings.NewReader(`<div id="des-2-window"><div class="window-header"></div></div>`),
	)
	require.NoError(t, err)

	security := ParseSecurity(doc)
	require.Empty(t, security.Ticker)
	require.Empty(t, security.Company.Name)
	require.Empty(t, security.Description)
	require.Nil(t, security.EpsEstimates)
	require.Nil(t, security.AnalystRatings)
	require.Nil(t, security.Snapshot)
}
