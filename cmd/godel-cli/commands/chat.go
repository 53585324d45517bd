package commands

import (
	"fmt"
	"log/slog"

	"godelterm/lib/notify"
	"godelterm/lib/scrapers/godel/chat"
	"godelterm/lib/serviceutil"

	"github.com/spf13/cobra"
)

var chatDom *bool

func init() {
	chatDom = chatCmd.Flags().Bool("dom", false, "Scrape rendered chat rows instead of websocket frames.")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat [channel] [--dom]",
	Short: "Monitors chat messages and archives them until interrupted.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		archiveService, database := openArchive(cfg)
		defer database.Close()

		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		channel := ""
		if len(args) > 0 {
			channel = args[0]
		}

		monitor := chat.NewMonitor(
			session,
			&archiveService,
			notify.NewNotifier(cfg.Notify),
			chat.Config{Channel: channel, UseDom: *chatDom},
		)
		err := monitor.OpenChannel(cmd.Context(), channel)
		if err != nil {
			serviceutil.Fatal("failed to open chat window", err)
		}

		slog.Info("monitoring chat", "channel", channel, "dom", *chatDom)
		err = monitor.Run(serviceutil.SignalContext(), func(msg chat.Message) {
			fmt.Printf("[%s] %s: %s\n", msg.Channel, msg.Sender, msg.Content)
		})
		if err != nil {
			serviceutil.Fatal("chat monitor failed", err)
		}
	},
}
