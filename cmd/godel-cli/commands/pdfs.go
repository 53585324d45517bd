package commands

import (
	"time"

	"godelterm/lib/serviceutil"
	"godelterm/lib/timezone"
	"godelterm/services/archive"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	pdfsTicker *string
	pdfsLimit  *int64
)

func init() {
	pdfsTicker = pdfsCmd.Flags().String("ticker", "", "Only show downloads for this ticker.")
	pdfsLimit = pdfsCmd.Flags().Int64("limit", 100, "Maximum number of downloads to show.")
	rootCmd.AddCommand(pdfsCmd)
}

var pdfsCmd = &cobra.Command{
	Use:   "pdfs [--ticker <symbol>] [--limit <n>]",
	Short: "Lists recorded research pdf downloads, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		archiveService, database := openArchive(cfg)
		defer database.Close()

		downloads, err := archiveService.GetPdfDownloads(cmd.Context(), archive.GetPdfDownloadsRequest{
			Ticker: *pdfsTicker,
			Limit:  *pdfsLimit,
		})
		if err != nil {
			serviceutil.Fatal("failed to query downloads", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Time", "Ticker", "Command", "File", "Path"})
		for _, download := range downloads {
			t.AppendRow(table.Row{
				time.Unix(download.Timestamp, 0).In(timezone.Location).Format(time.RFC3339),
				download.Ticker,
				download.Command,
				download.Filename,
				download.Filepath,
			})
		}
		t.Render()
	},
}
