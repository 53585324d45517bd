package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	windowSelector   = `div.resize.inline-block.absolute[id$='-window']`
	spinnerSelector  = `.anticon-loading.anticon-spin`
	closeSelector    = `span.anticon.anticon-close`
	closeSvgSelector = `svg[data-icon='close']`
)

const (
	newWindowTimeout = time.Second * 10
	windowPollStep   = time.Millisecond * 100
	loadingGrace     = time.Millisecond * 500
	loadingTimeout   = time.Second * 30
)

// Window is one tile in the terminal workspace, identified by its
// stable DOM id (e.g. "des-3-window").
type Window struct {
	session *Session
	Id      string
}

func (w *Window) Selector() string {
	return fmt.Sprintf(`[id='%s']`, w.Id)
}

// Document snapshots the window subtree for goquery parsing.
func (w *Window) Document(ctx context.Context) (*goquery.Document, error) {
	html, err := w.session.Browser.OuterHTML(ctx, w.Selector())
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (w *Window) InnerText(ctx context.Context) (string, error) {
	var text string
	expr := fmt.Sprintf(
		`document.getElementById(%q) ? document.getElementById(%q).innerText : ""`,
		w.Id, w.Id,
	)
	err := w.session.Browser.Evaluate(ctx, expr, &text)
	return text, err
}

// Close clicks the window's close control. Some window types render
// the close icon without the span wrapper, hence the svg fallback.
func (w *Window) Close(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Window.Close")
	defer span.End()

	span.SetAttributes(attribute.String("window", w.Id))

	err := w.session.Browser.Click(ctx, w.Selector()+" "+closeSelector)
	if err == nil {
		return nil
	}
	err = w.session.Browser.Click(ctx, w.Selector()+" "+closeSvgSelector)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to close window")
		return err
	}
	return nil
}

// WindowIds lists the ids of all open terminal windows in DOM order.
func (s *Session) WindowIds(ctx context.Context) ([]string, error) {
	var ids []string
	expr := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map((e) => e.id)`,
		windowSelector,
	)
	err := s.Browser.Evaluate(ctx, expr, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// newWindowId returns the id of the newest window present in after
// but not in before, or "" when none appeared.
func newWindowId(before, after []string) string {
	seen := make(map[string]struct{}, len(before))
	for _, id := range before {
		seen[id] = struct{}{}
	}
	newest := ""
	for _, id := range after {
		if _, ok := seen[id]; !ok {
			newest = id
		}
	}
	return newest
}

// WaitNewWindow polls until a window not present in before appears.
func (s *Session) WaitNewWindow(ctx context.Context, before []string) (*Window, error) {
	ctx, span := tracer.Start(ctx, "WaitNewWindow")
	defer span.End()

	deadline := time.Now().Add(newWindowTimeout)
	for time.Now().Before(deadline) {
		after, err := s.WindowIds(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to list windows")
			return nil, err
		}
		if id := newWindowId(before, after); id != "" {
			span.SetAttributes(attribute.String("window", id))
			return &Window{session: s, Id: id}, nil
		}

		select {
		case <-time.After(windowPollStep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	err := fmt.Errorf("no new window appeared within %s", newWindowTimeout)
	span.RecordError(err)
	span.SetStatus(codes.Error, "timed out")
	return nil, err
}

// WaitLoading blocks until the window's loading spinners disappear.
// The initial grace period lets a spinner mount at all, polling too
// early reports "loaded" before the request even starts.
func (s *Session) WaitLoading(ctx context.Context, w *Window) error {
	ctx, span := tracer.Start(ctx, "WaitLoading")
	defer span.End()

	span.SetAttributes(attribute.String("window", w.Id))

	select {
	case <-time.After(loadingGrace):
	case <-ctx.Done():
		return ctx.Err()
	}

	expr := fmt.Sprintf(
		`document.querySelectorAll(%q).length`,
		w.Selector()+" "+spinnerSelector,
	)
	deadline := time.Now().Add(loadingTimeout)
	for time.Now().Before(deadline) {
		var spinners int
		err := s.Browser.Evaluate(ctx, expr, &spinners)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to count spinners")
			return err
		}
		if spinners == 0 {
			return nil
		}

		select {
		case <-time.After(windowPollStep):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := fmt.Errorf("window %s still loading after %s", w.Id, loadingTimeout)
	span.RecordError(err)
	span.SetStatus(codes.Error, "timed out")
	return err
}

// FindWindowByTitle returns the first open window whose inner text
// starts with a line containing the given substring, case-insensitive.
func (s *Session) FindWindowByTitle(ctx context.Context, title string) (*Window, error) {
	ctx, span := tracer.Start(ctx, "FindWindowByTitle")
	defer span.End()

	span.SetAttributes(attribute.String("title", title))

	ids, err := s.WindowIds(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToUpper(title)
	for _, id := range ids {
		w := &Window{session: s, Id: id}
		text, err := w.InnerText(ctx)
		if err != nil {
			continue
		}
		header, _, _ := strings.Cut(text, "\n")
		if strings.Contains(strings.ToUpper(header), needle) ||
			strings.Contains(strings.ToUpper(id), needle) {
			return w, nil
		}
	}

	err = fmt.Errorf("no window titled %q", title)
	span.RecordError(err)
	span.SetStatus(codes.Error, "window not found")
	return nil, err
}
