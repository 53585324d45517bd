package commands

import (
	"godelterm/lib/scrapers/godel/research"
	"godelterm/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var resDownload *bool

func init() {
	resDownload = resCmd.Flags().Bool("download", false, "Also download the report pdfs and record them.")
	rootCmd.AddCommand(resCmd)
}

var resCmd = &cobra.Command{
	Use:   "res [ticker] [--download]",
	Short: "Scrapes the research report list, optionally fetching pdfs.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		archiveService, database := openArchive(cfg)
		defer database.Close()

		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		ticker := ""
		if len(args) > 0 {
			ticker = args[0]
		}
		result, err := research.
			NewClient(session, &archiveService, cfg.OutputDir).
			Research(cmd.Context(), research.Request{
				Ticker:       ticker,
				DownloadPdfs: *resDownload,
			})
		if err != nil {
			serviceutil.Fatal("failed to scrape research", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Date", "Ticker", "Provider", "Title"})
		for _, report := range result.Reports {
			t.AppendRow(table.Row{report.Date, report.Ticker, report.Provider, report.Title})
		}
		t.Render()

		if len(result.Downloads) > 0 {
			d := newTable()
			d.AppendHeader(table.Row{"File", "Path"})
			for _, download := range result.Downloads {
				d.AppendRow(table.Row{download.Filename, download.Filepath})
			}
			d.Render()
		}
		dumpResult(cfg, "res", result)
	},
}
