package commands

import (
	"fmt"
	"log/slog"

	"godelterm/lib/scrapers/godel/prt"
	"godelterm/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(prtCmd)
}

var prtCmd = &cobra.Command{
	Use:   "prt <ticker>...",
	Short: "Backtests a list of tickers and exports the suggestion csv.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		result, err := prt.NewClient(session).Backtest(cmd.Context(), args)
		if err != nil {
			serviceutil.Fatal("backtest failed", err)
		}

		if len(result.Summary) > 0 {
			t := newTable()
			t.AppendHeader(table.Row{"Bucket", "N", "Long", "Short", "Win rate", "Mean P/L", "Median P/L"})
			for _, row := range result.Summary {
				t.AppendRow(table.Row{row.Bucket, row.N, row.Long, row.Short, row.WinRate, row.MeanPl, row.MedianPl})
			}
			t.Render()
		}

		slog.Info("backtest finished",
			"suggestions", len(result.CsvRows),
			"failures", result.Failures,
		)
		if result.CsvPath != "" {
			fmt.Println("exported csv:", result.CsvPath)
		}
		dumpResult(cfg, "prt", result)
	},
}
