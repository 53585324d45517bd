// Package textcmds covers the commands whose windows are scraped as
// plain text rather than structured DOM: news (N, TOP), transcripts
// (TRAN), earnings metrics (EM) and financial analysis (FA). It also
// opens the chart and quote windows (G, GIP, QM), which only confirm
// the loaded ticker.
package textcmds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"godelterm/lib/scrapers/godel/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/textcmds")

// time for the window body to render its text after loading ends
const renderSettle = time.Second * 3

type Client struct {
	session *core.Session
}

func NewClient(session *core.Session) Client {
	return Client{session: session}
}

func (c Client) runAndReadText(ctx context.Context, command string) (string, error) {
	ctx, span := tracer.Start(ctx, "runAndReadText")
	defer span.End()

	span.SetAttributes(attribute.String("command", command))

	w, err := c.session.RunCommand(ctx, command)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "command failed")
		return "", err
	}
	defer w.Close(ctx)

	select {
	case <-time.After(renderSettle):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	text, err := w.InnerText(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read window text")
		return "", err
	}
	return text, nil
}

// News scrapes ticker headlines via `<ticker> N`.
func (c Client) News(ctx context.Context, ticker string) ([]Headline, error) {
	text, err := c.runAndReadText(ctx, fmt.Sprintf("%s N", strings.ToUpper(ticker)))
	if err != nil {
		return nil, err
	}
	return ParseHeadlines(text), nil
}

// TopNews scrapes the market-wide TOP headlines window.
func (c Client) TopNews(ctx context.Context) ([]Headline, error) {
	text, err := c.runAndReadText(ctx, "TOP")
	if err != nil {
		return nil, err
	}
	return ParseHeadlines(text), nil
}

// Transcript lists the earnings-call quarters available via
// `<ticker> TRAN`.
func (c Client) Transcript(ctx context.Context, ticker string) ([]string, error) {
	text, err := c.runAndReadText(ctx, fmt.Sprintf("%s TRAN", strings.ToUpper(ticker)))
	if err != nil {
		return nil, err
	}
	return ParseQuarters(text), nil
}

// EarningsMetrics scrapes the `<ticker> EM` estimate lines.
func (c Client) EarningsMetrics(ctx context.Context, ticker string) (map[string][]string, error) {
	text, err := c.runAndReadText(ctx, fmt.Sprintf("%s EM", strings.ToUpper(ticker)))
	if err != nil {
		return nil, err
	}
	return ParseMetrics(text), nil
}

// FinancialAnalysis scrapes the `<ticker> FA` statement lines.
func (c Client) FinancialAnalysis(ctx context.Context, ticker string) (map[string][]string, error) {
	text, err := c.runAndReadText(ctx, fmt.Sprintf("%s FA", strings.ToUpper(ticker)))
	if err != nil {
		return nil, err
	}
	return ParseMetrics(text), nil
}

// OpenWindow runs a window-only command (G, GIP, QM) and returns the
// ticker its symbol input settled on.
func (c Client) OpenWindow(ctx context.Context, ticker, command string) (string, error) {
	ctx, span := tracer.Start(ctx, "OpenWindow")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.String("command", command),
	)

	w, err := c.session.RunCommand(
		ctx,
		fmt.Sprintf("%s %s", strings.ToUpper(ticker), strings.ToUpper(command)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "command failed")
		return "", err
	}
	defer w.Close(ctx)

	loaded, err := c.session.Browser.Value(ctx, w.Selector()+" input")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read symbol input")
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(loaded)), nil
}
