// Package browser wraps chromedp with the primitives the terminal
// automation needs: a managed Chrome session, keyboard and mouse
// actions, DOM snapshots and cookie export.
package browser

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("godelterm.lib.browser")

type Config struct {
	Headless bool `json:"headless"`
	// directory Chrome saves downloads into, created if missing
	DownloadDir string `json:"download_dir"`
	// defaults to 1920x1080
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
}

// Browser is a single Chrome tab driven over CDP. All actions run
// against the tab's context so closing the browser cancels any
// in-flight action.
type Browser struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	downloadDir string
}

func Start(ctx context.Context, config Config) (*Browser, error) {
	ctx, span := tracer.Start(ctx, "Start")
	defer span.End()

	if config.WindowWidth <= 0 {
		config.WindowWidth = 1920
	}
	if config.WindowHeight <= 0 {
		config.WindowHeight = 1080
	}
	if config.DownloadDir != "" {
		err := os.MkdirAll(config.DownloadDir, 0755)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to create download dir")
			return nil, err
		}
	}

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", config.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(config.WindowWidth, config.WindowHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// spins up the Chrome process before any caller-visible action
	err := chromedp.Run(tabCtx, network.Enable())
	if err != nil {
		cancelTab()
		cancelAlloc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to launch chrome")
		return nil, err
	}

	b := &Browser{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		downloadDir: config.DownloadDir,
	}
	if config.DownloadDir != "" {
		err = chromedp.Run(tabCtx,
			cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
				WithDownloadPath(config.DownloadDir).
				WithEventsEnabled(true),
		)
		if err != nil {
			b.Close()
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to set download behavior")
			return nil, err
		}
	}

	slog.DebugContext(ctx, "browser started", "headless", config.Headless)
	return b, nil
}

func (b *Browser) Close() {
	b.cancelTab()
	b.cancelAlloc()
}

// Context returns the tab context, needed by event listeners and
// deadline-wrapped polls.
func (b *Browser) Context() context.Context {
	return b.ctx
}

func (b *Browser) DownloadDir() string {
	return b.downloadDir
}

func (b *Browser) run(ctx context.Context, name string, actions ...chromedp.Action) error {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	// actions must run on the tab context, the caller's context only
	// contributes cancellation
	runCtx := b.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(b.ctx, deadline)
		defer cancel()
	}

	err := chromedp.Run(runCtx, actions...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "browser action failed")
		return err
	}
	return nil
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	slog.DebugContext(ctx, "navigate", "url", url)
	return b.run(ctx, "Navigate", chromedp.Navigate(url))
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	return b.run(ctx, "Click", chromedp.Click(selector, chromedp.ByQuery))
}

func (b *Browser) ClickXPath(ctx context.Context, xpath string) error {
	return b.run(ctx, "ClickXPath", chromedp.Click(xpath, chromedp.BySearch))
}

func (b *Browser) Focus(ctx context.Context, selector string) error {
	return b.run(ctx, "Focus", chromedp.Focus(selector, chromedp.ByQuery))
}

// SendKeys types text into the element matched by selector without
// clearing it first.
func (b *Browser) SendKeys(ctx context.Context, selector, text string) error {
	return b.run(ctx, "SendKeys", chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// SetValue replaces the value of an input or textarea and fires an
// input event so React picks up the change.
func (b *Browser) SetValue(ctx context.Context, selector, value string) error {
	return b.run(ctx, "SetValue",
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
}

func (b *Browser) Value(ctx context.Context, selector string) (string, error) {
	var value string
	err := b.run(ctx, "Value", chromedp.Value(selector, &value, chromedp.ByQuery))
	return value, err
}

func (b *Browser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return b.run(ctx, "WaitVisible", chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (b *Browser) WaitVisibleXPath(ctx context.Context, xpath string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return b.run(ctx, "WaitVisibleXPath", chromedp.WaitVisible(xpath, chromedp.BySearch))
}

// OuterHTML snapshots the element matched by selector, ready to be
// handed to goquery.
func (b *Browser) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := b.run(ctx, "OuterHTML", chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	return html, err
}

// Evaluate runs a javascript expression in the page, unmarshaling the
// result into out (pass nil to discard).
func (b *Browser) Evaluate(ctx context.Context, expression string, out any) error {
	if out == nil {
		return b.run(ctx, "Evaluate", chromedp.Evaluate(expression, nil))
	}
	return b.run(ctx, "Evaluate", chromedp.Evaluate(expression, out))
}

// Cookies exports the browser's cookie jar so plain HTTP clients can
// reuse the authenticated session.
func (b *Browser) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	ctx, span := tracer.Start(ctx, "Cookies")
	defer span.End()

	var cdpCookies []*network.Cookie
	err := chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cdpCookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cookies")
		return nil, err
	}

	cookies := make([]*http.Cookie, len(cdpCookies))
	for i, c := range cdpCookies {
		cookies[i] = &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		}
	}
	return cookies, nil
}
