package archive

import (
	"context"
	"testing"
	"time"

	"godelterm/lib/testutil"
	"godelterm/services/archive/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestChatMessages(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/archive",
		DbSchema: db.Schema,
	})
	defer cleanup()
	service := NewService(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		messages, err := service.GetChatMessages(ctx, GetChatMessagesRequest{})
		require.NoError(t, err)
		require.Len(t, messages, 0)
	}

	_, err := service.RecordChatMessage(ctx, ChatMessage{
		Channel:   "general",
		Sender:    "alice",
		Content:   "AAPL earnings beat",
		Timestamp: 1700000000,
		RawData:   `{"type":"message"}`,
	})
	require.NoError(t, err)
	_, err = service.RecordChatMessage(ctx, ChatMessage{
		Channel:   "trading",
		Sender:    "bob",
		Content:   "selling everything",
		Timestamp: 1700000100,
	})
	require.NoError(t, err)

	{
		messages, err := service.GetChatMessages(ctx, GetChatMessagesRequest{})
		require.NoError(t, err)
		require.Len(t, messages, 2)
		// newest first
		require.Equal(t, "bob", messages[0].Sender)
		require.Equal(t, "alice", messages[1].Sender)
	}
	{
		messages, err := service.GetChatMessages(ctx, GetChatMessagesRequest{
			Channel: "general",
		})
		require.NoError(t, err)
		require.Len(t, messages, 1)
		require.Equal(t, "AAPL earnings beat", messages[0].Content)
	}
	{
		messages, err := service.GetChatMessages(ctx, GetChatMessagesRequest{
			Since: 1700000050,
		})
		require.NoError(t, err)
		require.Len(t, messages, 1)
		require.Equal(t, "trading", messages[0].Channel)
	}
	{
		messages, err := service.GetChatMessages(ctx, GetChatMessagesRequest{
			Limit: 1,
		})
		require.NoError(t, err)
		require.Len(t, messages, 1)
	}
}

func TestRawDataTruncation(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/archive",
		DbSchema: db.Schema,
	})
	defer cleanup()
	service := NewService(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	huge := make([]byte, maxRawData*2)
	for i := range huge {
		huge[i] = 'x'
	}
	_, err := service.RecordChatMessage(ctx, ChatMessage{
		Channel: "general",
		RawData: string(huge),
	})
	require.NoError(t, err)

	messages, err := service.GetChatMessages(ctx, GetChatMessagesRequest{})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].RawData, maxRawData)
}

func TestPdfDownloads(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/archive",
		DbSchema: db.Schema,
	})
	defer cleanup()
	service := NewService(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := service.RecordPdfDownload(ctx, PdfDownload{
		Ticker:   "NVDA",
		Command:  "RES",
		Filename: "nvda_research.pdf",
		Filepath: "output/pdfs/nvda_research.pdf",
	})
	require.NoError(t, err)
	_, err = service.RecordPdfDownload(ctx, PdfDownload{
		Ticker:   "AMD",
		Command:  "RES",
		Filename: "amd_research.pdf",
		Filepath: "output/pdfs/amd_research.pdf",
	})
	require.NoError(t, err)

	{
		downloads, err := service.GetPdfDownloads(ctx, GetPdfDownloadsRequest{})
		require.NoError(t, err)
		require.Len(t, downloads, 2)
	}
	{
		downloads, err := service.GetPdfDownloads(ctx, GetPdfDownloadsRequest{
			Ticker: "NVDA",
		})
		require.NoError(t, err)
		require.Len(t, downloads, 1)
		require.Equal(t, "nvda_research.pdf", downloads[0].Filename)
	}
}
