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
	messagesChannel *string
	messagesSince   *time.Duration
	messagesLimit   *int64
)

func init() {
	messagesChannel = messagesCmd.Flags().String("channel", "", "Only show messages from this channel.")
	messagesSince = messagesCmd.Flags().Duration("since", 0, "Only show messages newer than this age, e.g. 24h.")
	messagesLimit = messagesCmd.Flags().Int64("limit", 100, "Maximum number of messages to show.")
	rootCmd.AddCommand(messagesCmd)
}

var messagesCmd = &cobra.Command{
	Use:   "messages [--channel <name>] [--since <age>] [--limit <n>]",
	Short: "Lists archived chat messages, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		archiveService, database := openArchive(cfg)
		defer database.Close()

		since := int64(0)
		if *messagesSince > 0 {
			since = time.Now().Add(-*messagesSince).Unix()
		}
		messages, err := archiveService.GetChatMessages(cmd.Context(), archive.GetChatMessagesRequest{
			Channel: *messagesChannel,
			Since:   since,
			Limit:   *messagesLimit,
		})
		if err != nil {
			serviceutil.Fatal("failed to query messages", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Time", "Channel", "Sender", "Content"})
		for _, msg := range messages {
			when := ""
			if msg.Timestamp > 0 {
				when = time.Unix(msg.Timestamp, 0).In(timezone.Location).Format(time.RFC3339)
			}
			t.AppendRow(table.Row{when, msg.Channel, msg.Sender, msg.Content})
		}
		t.Render()
	},
}
