package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	n := NewNotifier(Config{
		Keywords: []string{"earnings", "AAPL"},
	})

	require.True(t, n.Matches("AAPL just reported"))
	require.True(t, n.Matches("Earnings call at 5pm"))
	require.True(t, n.Matches("big EARNINGS beat"))
	require.True(t, n.Matches("AA PL just reported"))
	require.False(t, n.Matches("nothing interesting here"))
	require.False(t, n.Matches(""))
}

func TestEnabled(t *testing.T) {
	require.False(t, NewNotifier(Config{}).Enabled())
	require.False(t, NewNotifier(Config{
		Smtp: SmtpConfig{Server: "smtp.example.com"},
	}).Enabled())
	require.True(t, NewNotifier(Config{
		Smtp: SmtpConfig{Server: "smtp.example.com"},
		To:   []string{"ops@example.com"},
	}).Enabled())
}
