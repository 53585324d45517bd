// Package algoloop repeatedly feeds the most-active tickers into the
// portfolio backtester.
package algoloop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"godelterm/lib/scrapers/godel/most"
	"godelterm/lib/scrapers/godel/prt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/algoloop")

type Config struct {
	// movers tab to source tickers from, defaults to ACTIVE
	Tab most.Tab `json:"tab"`
	// movers row limit, 0 keeps the window default
	Limit int `json:"limit"`
	// delay between iterations, defaults to 60s
	Interval time.Duration `json:"interval"`
	// movers column holding the symbol, defaults to "Ticker"
	TickerColumn string `json:"ticker_column"`
}

type Loop struct {
	most   most.Client
	prt    prt.Client
	config Config
}

func NewLoop(mostClient most.Client, prtClient prt.Client, config Config) Loop {
	if config.Tab == "" {
		config.Tab = most.TabActive
	}
	if config.Interval <= 0 {
		config.Interval = time.Second * 60
	}
	if config.TickerColumn == "" {
		config.TickerColumn = "Ticker"
	}
	return Loop{most: mostClient, prt: prtClient, config: config}
}

// RunOnce scrapes the movers table and backtests its tickers.
func (l Loop) RunOnce(ctx context.Context) (prt.Result, error) {
	ctx, span := tracer.Start(ctx, "RunOnce")
	defer span.End()

	movers, err := l.most.Movers(ctx, l.config.Tab, l.config.Limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "movers scrape failed")
		return prt.Result{}, err
	}

	tickers := movers.Column(l.config.TickerColumn)
	if len(tickers) == 0 {
		err = fmt.Errorf("movers table had no %q column values", l.config.TickerColumn)
		span.RecordError(err)
		span.SetStatus(codes.Error, "no tickers")
		return prt.Result{}, err
	}
	span.SetAttributes(attribute.StringSlice("tickers", tickers))

	return l.prt.Backtest(ctx, tickers)
}

// Run iterates RunOnce until ctx is canceled. Iteration failures are
// logged and the loop keeps going.
func (l Loop) Run(ctx context.Context, onResult func(prt.Result)) error {
	for {
		result, err := l.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.ErrorContext(ctx, "loop iteration failed", "err", err)
		} else if onResult != nil {
			onResult(result)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.config.Interval):
		}
	}
}
