package research

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseReports(t *testing.T) {
	text := "Research\n" +
		"2025-08-12AAPLMorgan StanleyiPhone demand holding up\n" +
		"2025-08-11NVDAGoldman SachsDatacenter capex tracker\n" +
		"2025-08-10TSLA.XKeyBancDelivery preview"

	expected := []Report{
		{Date: "2025-08-12", Ticker: "AAPL", Provider: "Morgan Stanley", Title: "iPhone demand holding up"},
		{Date: "2025-08-11", Ticker: "NVDA", Provider: "Goldman Sachs", Title: "Datacenter capex tracker"},
		{Date: "2025-08-10", Ticker: "TSLA.X", Provider: "KeyBanc", Title: "Delivery preview"},
	}
	if diff := cmp.Diff(expected, ParseReports(text)); diff != "" {
		t.Fatalf("unexpected reports (-want +got):\n%s", diff)
	}
}

func TestParseReportsUnknownProvider(t *testing.T) {
	reports := ParseReports("2025-08-12AAPLBoutique ShopSome title")
	require.Len(t, reports, 1)
	require.Equal(t, "AAPL", reports[0].Ticker)
	require.Equal(t, "", reports[0].Provider)
	require.Equal(t, "Boutique ShopSome title", reports[0].Title)
}

func TestParseReportsNoDates(t *testing.T) {
	require.Empty(t, ParseReports("no reports here"))
}

func TestFilterByTicker(t *testing.T) {
	reports := []Report{
		{Ticker: "AAPL"},
		{Ticker: "NVDA"},
		{Ticker: "aapl"},
	}
	require.Len(t, FilterByTicker(reports, ""), 3)
	require.Len(t, FilterByTicker(reports, "AAPL"), 2)
	require.Len(t, FilterByTicker(reports, "MSFT"), 0)
}
