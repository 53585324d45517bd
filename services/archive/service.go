// Package archive persists monitored chat messages and research pdf
// downloads to sqlite.
package archive

import (
	"context"
	"database/sql"

	"godelterm/services/archive/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/archive")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

type ChatMessage struct {
	Channel string `json:"channel"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
	// unix seconds, zero when the frame carried no timestamp
	Timestamp int64 `json:"timestamp"`
	// the decoded frame this message came from, truncated
	RawData string `json:"raw_data,omitempty"`
}

const maxRawData = 5000

func (s Service) RecordChatMessage(ctx context.Context, msg ChatMessage) (int64, error) {
	ctx, span := tracer.Start(ctx, "RecordChatMessage")
	defer span.End()

	span.SetAttributes(attribute.String("channel", msg.Channel))

	raw := msg.RawData
	if len(raw) > maxRawData {
		raw = raw[:maxRawData]
	}
	id, err := s.qry.CreateChatMessage(ctx, db.CreateChatMessageParams{
		Channel:   msg.Channel,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		RawData:   raw,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return id, nil
}

type GetChatMessagesRequest struct {
	// empty matches all channels
	Channel string
	// unix seconds, zero means no lower bound
	Since int64
	// defaults to 100
	Limit int64
}

func (s Service) GetChatMessages(ctx context.Context, req GetChatMessagesRequest) ([]db.ChatMessage, error) {
	ctx, span := tracer.Start(ctx, "GetChatMessages")
	defer span.End()

	if req.Limit <= 0 {
		req.Limit = 100
	}
	messages, err := s.qry.GetChatMessages(ctx, db.GetChatMessagesParams{
		Channel:   req.Channel,
		Timestamp: req.Since,
		Limit:     req.Limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return messages, nil
}

type PdfDownload struct {
	Ticker   string `json:"ticker"`
	Command  string `json:"command"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}

func (s Service) RecordPdfDownload(ctx context.Context, download PdfDownload) (int64, error) {
	ctx, span := tracer.Start(ctx, "RecordPdfDownload")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticker", download.Ticker),
		attribute.String("filename", download.Filename),
	)

	id, err := s.qry.CreatePdfDownload(ctx, db.CreatePdfDownloadParams{
		Ticker:   download.Ticker,
		Command:  download.Command,
		Filename: download.Filename,
		Filepath: download.Filepath,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return id, nil
}

type GetPdfDownloadsRequest struct {
	// empty matches all tickers
	Ticker string
	// defaults to 100
	Limit int64
}

func (s Service) GetPdfDownloads(ctx context.Context, req GetPdfDownloadsRequest) ([]db.PdfDownload, error) {
	ctx, span := tracer.Start(ctx, "GetPdfDownloads")
	defer span.End()

	if req.Limit <= 0 {
		req.Limit = 100
	}
	downloads, err := s.qry.GetPdfDownloads(ctx, db.GetPdfDownloadsParams{
		Ticker: req.Ticker,
		Limit:  req.Limit,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return downloads, nil
}
