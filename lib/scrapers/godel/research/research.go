// Package research scrapes the RES window: the report list and,
// optionally, the report pdfs behind it.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"godelterm/lib/htmlutil"
	"godelterm/lib/scrapers/godel/core"
	"godelterm/services/archive"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/research")

type Client struct {
	session *core.Session
	archive *archive.Service
	// pdfs are written to <outputDir>/pdfs
	outputDir string
}

// NewClient builds a research client. archiveService may be nil, in
// which case downloads are not recorded.
func NewClient(session *core.Session, archiveService *archive.Service, outputDir string) Client {
	return Client{
		session:   session,
		archive:   archiveService,
		outputDir: outputDir,
	}
}

type Download struct {
	Url      string `json:"url"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}

type Result struct {
	Reports   []Report   `json:"reports"`
	Downloads []Download `json:"downloads,omitempty"`
}

type Request struct {
	// empty scrapes every listed report
	Ticker string
	// also fetch the pdf files behind the reports
	DownloadPdfs bool
}

// Research opens the RES window and scrapes the report list. With
// DownloadPdfs set it fetches every linked pdf over the session's
// authenticated http client.
func (c Client) Research(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "Research")
	defer span.End()

	span.SetAttributes(attribute.String("ticker", req.Ticker))

	w, err := c.session.RunCommand(ctx, "RES")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "RES command failed")
		return Result{}, err
	}
	defer w.Close(ctx)

	if req.Ticker != "" {
		// the window has a free-text filter above the list
		filter := w.Selector() + ` input[type='text']`
		err = c.session.Browser.SendKeys(ctx, filter, strings.ToUpper(req.Ticker))
		if err != nil {
			// ParseReports filters client-side as well, so a missing
			// filter input degrades instead of failing the scrape
			slog.WarnContext(ctx, "ticker filter input not usable", "err", err)
		} else {
			time.Sleep(time.Second)
		}
	}

	text, err := w.InnerText(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read window text")
		return Result{}, err
	}
	result := Result{
		Reports: FilterByTicker(ParseReports(text), req.Ticker),
	}

	if !req.DownloadPdfs {
		return result, nil
	}

	doc, err := w.Document(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot window")
		return Result{}, err
	}
	var pdfUrls []string
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Find(`a[href*='.pdf']`)) {
		pdfUrls = append(pdfUrls, anchor.Href)
	}

	result.Downloads, err = c.downloadPdfs(ctx, req.Ticker, pdfUrls)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pdf downloads failed")
		return result, err
	}
	return result, nil
}

func (c Client) downloadPdfs(ctx context.Context, ticker string, pdfUrls []string) ([]Download, error) {
	ctx, span := tracer.Start(ctx, "downloadPdfs")
	defer span.End()

	if len(pdfUrls) == 0 {
		return nil, nil
	}

	client, err := c.session.HttpClient(ctx)
	if err != nil {
		return nil, err
	}
	pdfDir := filepath.Join(c.outputDir, "pdfs")
	err = os.MkdirAll(pdfDir, 0755)
	if err != nil {
		return nil, err
	}

	var downloads []Download
	for _, raw := range pdfUrls {
		resolved, err := c.session.BaseUrl.Parse(raw)
		if err != nil {
			span.RecordError(err)
			continue
		}
		filename := pdfFilename(resolved)
		target := filepath.Join(pdfDir, filename)

		res, err := client.R().
			SetContext(ctx).
			SetOutput(target).
			Get(resolved.String())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "pdf fetch failed")
			return downloads, err
		}
		if res.StatusCode() >= 400 {
			err = fmt.Errorf("pdf fetch returned %d for %s", res.StatusCode(), resolved)
			span.RecordError(err)
			span.SetStatus(codes.Error, "pdf fetch failed")
			return downloads, err
		}

		download := Download{
			Url:      resolved.String(),
			Filename: filename,
			Filepath: target,
		}
		downloads = append(downloads, download)

		if c.archive != nil {
			_, err = c.archive.RecordPdfDownload(ctx, archive.PdfDownload{
				Ticker:   strings.ToUpper(ticker),
				Command:  "RES",
				Filename: filename,
				Filepath: target,
			})
			if err != nil {
				return downloads, err
			}
		}
	}
	return downloads, nil
}

func pdfFilename(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = fmt.Sprintf("report-%d.pdf", time.Now().UnixNano())
	}
	return name
}
