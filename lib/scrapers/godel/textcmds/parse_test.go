package textcmds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeadlines(t *testing.T) {
	text := `NEWS
8:42 AM ET Apple supplier flags soft quarter
10:15 AM Chipmakers rally on datacenter demand
08/12 Fed minutes preview
2025-08-11 Retail sales beat expectations
not a headline
`
	headlines := ParseHeadlines(text)
	require.Equal(t, []Headline{
		{Time: "8:42 AM ET", Text: "Apple supplier flags soft quarter"},
		{Time: "10:15 AM", Text: "Chipmakers rally on datacenter demand"},
		{Time: "08/12", Text: "Fed minutes preview"},
		{Time: "2025-08-11", Text: "Retail sales beat expectations"},
	}, headlines)
}

func TestParseHeadlinesEmpty(t *testing.T) {
	require.Empty(t, ParseHeadlines("just chrome text\nno timestamps"))
}

func TestParseMetrics(t *testing.T) {
	text := `FA
Revenue 94.9B
Net Income 23.4B
Diluted EPS 1.53
Gross Margin 46.2%
Free Cash Flow 26.7B
Irrelevant line
`
	metrics := ParseMetrics(text)
	require.Equal(t, []string{"Revenue 94.9B"}, metrics["Revenue"])
	require.Equal(t, []string{"Net Income 23.4B"}, metrics["Income"])
	require.Equal(t, []string{"Diluted EPS 1.53"}, metrics["EPS"])
	require.Equal(t, []string{"Gross Margin 46.2%"}, metrics["Margin"])
	require.Equal(t, []string{"Free Cash Flow 26.7B"}, metrics["Cash"])
	require.NotContains(t, metrics, "Irrelevant")
}

func TestParseMetricsNone(t *testing.T) {
	require.Nil(t, ParseMetrics("nothing financial here"))
}

func TestParseQuarters(t *testing.T) {
	text := "Transcripts\nQ3 2025\nQ2 2025\nQ3 2025\nQ1 '25"
	require.Equal(t, []string{"Q3 2025", "Q2 2025", "Q1 '25"}, ParseQuarters(text))
}
