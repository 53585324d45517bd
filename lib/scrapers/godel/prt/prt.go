// Package prt drives the portfolio backtest window: submit a ticker
// list, wait for the run to finish, export the suggestion csv and
// scrape the performance summary.
package prt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"godelterm/lib/scrapers/godel/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/prt")

const (
	backtestTimeout  = time.Second * 120
	backtestPollStep = time.Second
	downloadTimeout  = time.Second * 10
	downloadPollStep = time.Millisecond * 500
)

type Client struct {
	session *core.Session
}

func NewClient(session *core.Session) Client {
	return Client{session: session}
}

type Result struct {
	Tickers []string `json:"tickers"`
	// path of the exported csv on disk
	CsvPath    string       `json:"csv_path,omitempty"`
	CsvHeaders []string     `json:"csv_headers,omitempty"`
	CsvRows    [][]string   `json:"csv_rows,omitempty"`
	Summary    []SummaryRow `json:"summary,omitempty"`
	// size of the "Failures in last batch" counter
	Failures int `json:"failures"`
}

const fillSymbolsScript = `(() => {
	const root = document.querySelector(%q);
	if (!root) return false;
	for (const label of root.querySelectorAll("label")) {
		if (!label.textContent.includes("Symbols")) continue;
		const area = label.querySelector("textarea");
		if (!area) continue;
		const setter = Object.getOwnPropertyDescriptor(
			window.HTMLTextAreaElement.prototype, "value").set;
		setter.call(area, %q);
		area.dispatchEvent(new Event("input", { bubbles: true }));
		return true;
	}
	return false;
})()`

const clickByTextScript = `(() => {
	const root = document.querySelector(%q);
	if (!root) return false;
	for (const el of root.querySelectorAll("button, a")) {
		if (el.textContent.trim() === %q) {
			el.click();
			return true;
		}
	}
	return false;
})()`

const clickRunScript = `(() => {
	const root = document.querySelector(%q);
	if (!root) return false;
	for (const el of root.querySelectorAll("button")) {
		if (el.className.includes("bg-emerald-600")) {
			el.click();
			return true;
		}
	}
	return false;
})()`

// the run is done when the progress bar hits 100% width or the
// batch counter reads "N / N"
const backtestDoneScript = `(() => {
	const root = document.querySelector(%q);
	if (!root) return false;
	for (const el of root.querySelectorAll("div")) {
		if (el.className.includes("h-full") &&
			el.className.includes("bg-[#10b981]") &&
			el.style.width === "100%%") {
			return true;
		}
	}
	const m = root.innerText.match(/(\d+)\s*\/\s*(\d+)/);
	return !!m && m[1] === m[2] && m[2] !== "0";
})()`

// Backtest runs PRT over the given tickers and collects every output
// the window offers. The window is closed before returning.
func (c Client) Backtest(ctx context.Context, tickers []string) (Result, error) {
	ctx, span := tracer.Start(ctx, "Backtest")
	defer span.End()

	span.SetAttributes(attribute.StringSlice("tickers", tickers))

	if len(tickers) == 0 {
		return Result{}, fmt.Errorf("no tickers to backtest")
	}

	w, err := c.session.RunCommand(ctx, "PRT")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "PRT command failed")
		return Result{}, err
	}
	defer w.Close(ctx)

	result := Result{Tickers: tickers}

	var ok bool
	err = c.session.Browser.Evaluate(
		ctx,
		fmt.Sprintf(fillSymbolsScript, w.Selector(), strings.Join(tickers, " ")),
		&ok,
	)
	if err != nil {
		return result, err
	}
	if !ok {
		err = fmt.Errorf("symbols field not found")
		span.RecordError(err)
		span.SetStatus(codes.Error, "symbols field not found")
		return result, err
	}

	err = c.session.Browser.Evaluate(
		ctx,
		fmt.Sprintf(clickRunScript, w.Selector()),
		&ok,
	)
	if err != nil {
		return result, err
	}
	if !ok {
		err = fmt.Errorf("run button not found")
		span.RecordError(err)
		span.SetStatus(codes.Error, "run button not found")
		return result, err
	}

	err = c.waitBacktest(ctx, w)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backtest never finished")
		return result, err
	}

	// results keep streaming in briefly after the bar fills
	time.Sleep(time.Second * 2)

	doc, err := w.Document(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot window")
		return result, err
	}
	if !hasSuggestions(doc) {
		err = fmt.Errorf("backtest produced no suggestions")
		span.RecordError(err)
		span.SetStatus(codes.Error, "no suggestions")
		return result, err
	}
	result.Summary = ParseSummary(doc)
	result.Failures = ParseFailures(doc)

	csvPath, err := c.exportCsv(ctx, w)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "csv export failed")
		return result, err
	}
	result.CsvPath = csvPath

	headers, rows, err := ReadSuggestionsCsv(csvPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read exported csv")
		return result, err
	}
	result.CsvHeaders = headers
	result.CsvRows = rows

	return result, nil
}

func (c Client) waitBacktest(ctx context.Context, w *core.Window) error {
	ctx, span := tracer.Start(ctx, "waitBacktest")
	defer span.End()

	expr := fmt.Sprintf(backtestDoneScript, w.Selector())
	deadline := time.Now().Add(backtestTimeout)
	for time.Now().Before(deadline) {
		var done bool
		err := c.session.Browser.Evaluate(ctx, expr, &done)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-time.After(backtestPollStep):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("backtest still running after %s", backtestTimeout)
}

// exportCsv clicks "Export CSV" and waits for a new csv file to land
// in the browser's download directory.
func (c Client) exportCsv(ctx context.Context, w *core.Window) (string, error) {
	ctx, span := tracer.Start(ctx, "exportCsv")
	defer span.End()

	downloadDir := c.session.Browser.DownloadDir()
	if downloadDir == "" {
		return "", fmt.Errorf("no download directory configured")
	}
	before, err := listCsvFiles(downloadDir)
	if err != nil {
		return "", err
	}

	var clicked bool
	err = c.session.Browser.Evaluate(
		ctx,
		fmt.Sprintf(clickByTextScript, w.Selector(), "Export CSV"),
		&clicked,
	)
	if err != nil {
		return "", err
	}
	if !clicked {
		return "", fmt.Errorf("export button not found")
	}

	deadline := time.Now().Add(downloadTimeout)
	for time.Now().Before(deadline) {
		after, err := listCsvFiles(downloadDir)
		if err != nil {
			return "", err
		}
		if name := NewCsvFile(before, after); name != "" {
			path := filepath.Join(downloadDir, name)
			span.SetAttributes(attribute.String("csv", path))
			return path, nil
		}

		select {
		case <-time.After(downloadPollStep):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("no csv appeared within %s", downloadTimeout)
}

func listCsvFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
