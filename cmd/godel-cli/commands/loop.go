package commands

import (
	"log/slog"
	"strings"
	"time"

	"godelterm/lib/scrapers/godel/algoloop"
	"godelterm/lib/scrapers/godel/most"
	"godelterm/lib/scrapers/godel/prt"
	"godelterm/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	loopTab      *string
	loopLimit    *int
	loopInterval *time.Duration
)

func init() {
	loopTab = loopCmd.Flags().String("tab", "ACTIVE", "Movers tab to source tickers from.")
	loopLimit = loopCmd.Flags().Int("limit", 10, "Movers row limit.")
	loopInterval = loopCmd.Flags().Duration("interval", time.Second*60, "Delay between iterations.")
	rootCmd.AddCommand(loopCmd)
}

var loopCmd = &cobra.Command{
	Use:   "loop [--tab <tab>] [--limit <n>] [--interval <d>]",
	Short: "Repeatedly backtests the most-active tickers until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		loop := algoloop.NewLoop(
			most.NewClient(session),
			prt.NewClient(session),
			algoloop.Config{
				Tab:      most.Tab(strings.ToUpper(*loopTab)),
				Limit:    *loopLimit,
				Interval: *loopInterval,
			},
		)

		err := loop.Run(serviceutil.SignalContext(), func(result prt.Result) {
			slog.Info("loop iteration finished",
				"tickers", len(result.Tickers),
				"suggestions", len(result.CsvRows),
				"failures", result.Failures,
				"csv", result.CsvPath,
			)
		})
		if err != nil {
			serviceutil.Fatal("loop failed", err)
		}
	},
}
