package commands

import (
	"strings"

	"godelterm/lib/scrapers/godel/most"
	"godelterm/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	mostTab   *string
	mostLimit *int
)

func init() {
	mostTab = mostCmd.Flags().String("tab", "ACTIVE", "Movers tab: ACTIVE, GAINERS, LOSERS or VALUE.")
	mostLimit = mostCmd.Flags().Int("limit", 0, "Row limit (10, 25, 50, 75, 100), 0 keeps the default.")
	rootCmd.AddCommand(mostCmd)
}

var mostCmd = &cobra.Command{
	Use:   "most [--tab <tab>] [--limit <n>]",
	Short: "Scrapes the most-active securities table.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		movers, err := most.NewClient(session).Movers(
			cmd.Context(),
			most.Tab(strings.ToUpper(*mostTab)),
			*mostLimit,
		)
		if err != nil {
			serviceutil.Fatal("failed to scrape movers", err)
		}

		t := newTable()
		header := table.Row{}
		for _, h := range movers.Headers {
			header = append(header, h)
		}
		t.AppendHeader(header)
		for _, row := range movers.Rows {
			out := table.Row{}
			for _, h := range movers.Headers {
				out = append(out, row[h])
			}
			t.AppendRow(out)
		}
		t.Render()
		dumpResult(cfg, "most_"+strings.ToLower(*mostTab), movers)
	},
}
