// Package des scrapes the security description window: company
// profile, EPS estimates, analyst ratings and the snapshot panel.
package des

import (
	"context"
	"fmt"
	"strings"

	"godelterm/lib/scrapers/godel/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/des")

type Client struct {
	session *core.Session
}

func NewClient(session *core.Session) Client {
	return Client{session: session}
}

// clicks every "See more" / "Show all" toggle inside the window so
// the full description and rating list are in the DOM before the
// snapshot is taken
const expandScript = `(() => {
	const labels = ["See more", "Show all"];
	let clicked = 0;
	for (const el of document.querySelectorAll("%s a, %s span, %s button")) {
		if (labels.includes(el.textContent.trim())) {
			el.click();
			clicked++;
		}
	}
	return clicked;
})()`

// Describe runs `<ticker> <assetClass> DES` and scrapes the opened
// window. assetClass defaults to "Equity".
func (c Client) Describe(ctx context.Context, ticker, assetClass string) (Security, error) {
	ctx, span := tracer.Start(ctx, "Describe")
	defer span.End()

	span.SetAttributes(attribute.String("ticker", ticker))

	if assetClass == "" {
		assetClass = "Equity"
	}
	command := fmt.Sprintf("%s %s DES", strings.ToUpper(ticker), assetClass)

	w, err := c.session.RunCommand(ctx, command)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DES command failed")
		return Security{}, err
	}
	defer w.Close(ctx)

	sel := w.Selector()
	var clicked int
	err = c.session.Browser.Evaluate(
		ctx,
		fmt.Sprintf(expandScript, sel, sel, sel),
		&clicked,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to expand sections")
		return Security{}, err
	}
	if clicked > 0 {
		err = c.session.WaitLoading(ctx, w)
		if err != nil {
			return Security{}, err
		}
	}

	doc, err := w.Document(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to snapshot window")
		return Security{}, err
	}
	return ParseSecurity(doc), nil
}
