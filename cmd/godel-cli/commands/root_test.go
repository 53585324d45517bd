package commands

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveResult(t *testing.T) {
	dir := t.TempDir()

	path, err := saveResult(dir, "aapl_des", map[string]string{"ticker": "AAPL"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, dir))
	require.True(t, strings.HasSuffix(path, ".json"))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(contents, &decoded))
	require.Equal(t, "AAPL", decoded["ticker"])
}

func TestSaveResultCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/output"
	_, err := saveResult(dir, "most_active", []string{"AAPL"})
	require.NoError(t, err)
}
