package commands

import (
	"log/slog"
	"path/filepath"
	"time"

	"godelterm/lib/scrapers/godel/probe"
	"godelterm/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	probeDuration *time.Duration
	probeKind     *string
	probeFilter   *string
	probeOut      *string
)

func init() {
	probeDuration = probeCmd.Flags().Duration("duration", time.Second*30, "How long to record traffic.")
	probeKind = probeCmd.Flags().String("kind", "", "Restrict to 'http' or 'websocket' traffic.")
	probeFilter = probeCmd.Flags().String("filter", "", "Keep only urls containing this substring.")
	probeOut = probeCmd.Flags().String("out", "", "Traffic dump path, defaults to <output_dir>/traffic.json.")
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe [--duration <d>] [--kind http|websocket] [--filter <substr>]",
	Short: "Records the terminal's network traffic for a while and dumps it.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		traffic, err := probe.Run(cmd.Context(), session, probe.Config{
			Duration:  *probeDuration,
			Kind:      probe.Kind(*probeKind),
			UrlFilter: *probeFilter,
		})
		if err != nil {
			serviceutil.Fatal("probe failed", err)
		}

		summary := traffic.Summary()
		slog.Info("probe finished",
			"http", summary.HttpCount,
			"websocket_frames", summary.FrameCount,
		)

		out := *probeOut
		if out == "" {
			out = filepath.Join(cfg.OutputDir, "traffic.json")
		}
		err = traffic.WriteJson(out)
		if err != nil {
			serviceutil.Fatal("failed to write traffic dump", err)
		}
		slog.Info("traffic dump written", "path", out)
	},
}
