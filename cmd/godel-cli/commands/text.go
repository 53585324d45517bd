package commands

import (
	"fmt"
	"strings"

	"godelterm/lib/scrapers/godel/textcmds"
	"godelterm/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(tranCmd)
	rootCmd.AddCommand(emCmd)
	rootCmd.AddCommand(faCmd)
	rootCmd.AddCommand(openCmd)
}

func renderHeadlines(headlines []textcmds.Headline) {
	t := newTable()
	t.AppendHeader(table.Row{"Time", "Headline"})
	for _, h := range headlines {
		t.AppendRow(table.Row{h.Time, h.Text})
	}
	t.Render()
}

func renderMetrics(metrics map[string][]string) {
	t := newTable()
	t.AppendHeader(table.Row{"Metric", "Line"})
	for keyword, lines := range metrics {
		for _, line := range lines {
			t.AppendRow(table.Row{keyword, line})
		}
	}
	t.Render()
}

var newsCmd = &cobra.Command{
	Use:   "news <ticker>",
	Short: "Scrapes the ticker news window.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		headlines, err := textcmds.NewClient(session).News(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to scrape news", err)
		}
		renderHeadlines(headlines)
		dumpResult(cfg, strings.ToLower(args[0])+"_news", headlines)
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Scrapes the market-wide top news window.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		headlines, err := textcmds.NewClient(session).TopNews(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to scrape top news", err)
		}
		renderHeadlines(headlines)
		dumpResult(cfg, "top", headlines)
	},
}

var tranCmd = &cobra.Command{
	Use:   "tran <ticker>",
	Short: "Lists the earnings-call transcript quarters for a ticker.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		quarters, err := textcmds.NewClient(session).Transcript(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to scrape transcripts", err)
		}
		for _, quarter := range quarters {
			fmt.Println(quarter)
		}
		dumpResult(cfg, strings.ToLower(args[0])+"_tran", quarters)
	},
}

var emCmd = &cobra.Command{
	Use:   "em <ticker>",
	Short: "Scrapes the earnings metrics window.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		metrics, err := textcmds.NewClient(session).EarningsMetrics(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to scrape earnings metrics", err)
		}
		renderMetrics(metrics)
		dumpResult(cfg, strings.ToLower(args[0])+"_em", metrics)
	},
}

var faCmd = &cobra.Command{
	Use:   "fa <ticker>",
	Short: "Scrapes the financial analysis window.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		metrics, err := textcmds.NewClient(session).FinancialAnalysis(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to scrape financial analysis", err)
		}
		renderMetrics(metrics)
		dumpResult(cfg, strings.ToLower(args[0])+"_fa", metrics)
	},
}

var openCmd = &cobra.Command{
	Use:   "open <ticker> <command>",
	Short: "Opens a window-only command (G, GIP, QM) and confirms the loaded ticker.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		loaded, err := textcmds.NewClient(session).OpenWindow(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to open window", err)
		}
		fmt.Println("loaded ticker:", loaded)
	},
}
