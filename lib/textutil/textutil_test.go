package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "jpmorgan", NormalizeName("  JP Morgan\n"))
	require.Equal(t, "goldmansachs", NormalizeName("Goldman   Sachs"))
}

func TestMatchName(t *testing.T) {
	matchers := []string{"jpmorgan", "goldman"}
	require.True(t, MatchName("JP Morgan Securities", matchers))
	require.True(t, MatchName("goldman sachs", matchers))
	require.False(t, MatchName("Jefferies", matchers))
}

func TestParseAbbrevNumber(t *testing.T) {
	cases := []struct {
		input  string
		expect float64
		ok     bool
	}{
		{"1.5M", 1.5e6, true},
		{"2B", 2e9, true},
		{"350K", 350e3, true},
		{"42", 42, true},
		{"3.2%", 3.2, true},
		{"1,234.5", 1234.5, true},
		{"-0.85", -0.85, true},
		{"N/A", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseAbbrevNumber(c.input)
		require.Equal(t, c.ok, ok, c.input)
		if c.ok {
			require.InDelta(t, c.expect, got, 1e-9, c.input)
		}
	}
}

func TestCleanNumericCell(t *testing.T) {
	require.Equal(t, "1500000", CleanNumericCell("1.5M"))
	require.Equal(t, "42", CleanNumericCell(" 42 "))
	require.Equal(t, "N/A", CleanNumericCell(" N/A "))
}
