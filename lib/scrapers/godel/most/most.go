// Package most scrapes the most-active securities window, covering
// the ACTIVE, GAINERS, LOSERS and VALUE tabs.
package most

import (
	"context"
	"fmt"
	"time"

	"godelterm/lib/scrapers/godel/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/most")

type Tab string

const (
	TabActive  Tab = "ACTIVE"
	TabGainers Tab = "GAINERS"
	TabLosers  Tab = "LOSERS"
	TabValue   Tab = "VALUE"
)

// row counts the window's limit dropdown accepts
var ValidLimits = []int{10, 25, 50, 75, 100}

type Client struct {
	session *core.Session
}

func NewClient(session *core.Session) Client {
	return Client{session: session}
}

const clickTabScript = `(() => {
	for (const el of document.querySelectorAll("%s div.cursor-pointer")) {
		if (el.textContent.trim() === %q) {
			el.click();
			return true;
		}
	}
	return false;
})()`

// Movers opens the MOST window, switches to the requested tab, sets
// the row limit and scrapes the table. limit <= 0 keeps the default.
func (c Client) Movers(ctx context.Context, tab Tab, limit int) (Movers, error) {
	ctx, span := tracer.Start(ctx, "Movers")
	defer span.End()

	span.SetAttributes(
		attribute.String("tab", string(tab)),
		attribute.Int("limit", limit),
	)

	w, err := c.session.RunCommand(ctx, "MOST")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "MOST command failed")
		return Movers{}, err
	}
	defer w.Close(ctx)

	if tab != "" && tab != TabActive {
		var clicked bool
		err = c.session.Browser.Evaluate(
			ctx,
			fmt.Sprintf(clickTabScript, w.Selector(), string(tab)),
			&clicked,
		)
		if err != nil {
			return Movers{}, err
		}
		if !clicked {
			err = fmt.Errorf("tab %q not found", tab)
			span.RecordError(err)
			span.SetStatus(codes.Error, "tab not found")
			return Movers{}, err
		}
		err = c.session.WaitLoading(ctx, w)
		if err != nil {
			return Movers{}, err
		}
	}

	if limit > 0 {
		err = c.setLimit(ctx, w, limit)
		if err != nil {
			return Movers{}, err
		}
	}

	doc, err := w.Document(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot window")
		return Movers{}, err
	}
	return ParseMovers(doc), nil
}

func (c Client) setLimit(ctx context.Context, w *core.Window, limit int) error {
	valid := false
	for _, l := range ValidLimits {
		if l == limit {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid row limit %d, accepts %v", limit, ValidLimits)
	}

	err := c.session.Browser.SetValue(
		ctx,
		w.Selector()+" select",
		fmt.Sprintf("%d", limit),
	)
	if err != nil {
		return err
	}

	// the table refetches after the dropdown changes
	time.Sleep(time.Millisecond * 500)
	return c.session.WaitLoading(ctx, w)
}
