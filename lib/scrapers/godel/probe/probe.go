// Package probe records the terminal's network traffic for a fixed
// window of time, for figuring out which backend calls feed a window.
package probe

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"godelterm/lib/browser"
	"godelterm/lib/scrapers/godel/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scrapers/godel/probe")

type Kind string

const (
	KindAll       Kind = ""
	KindHttp      Kind = "http"
	KindWebSocket Kind = "websocket"
)

type Config struct {
	// how long to record, defaults to 30s
	Duration time.Duration
	// restrict the capture to one traffic kind
	Kind Kind
	// keep only traffic whose url contains this substring
	UrlFilter string
}

type Traffic struct {
	Http   []browser.HTTPExchange   `json:"http,omitempty"`
	Frames []browser.WebSocketFrame `json:"websocket,omitempty"`
}

type Summary struct {
	HttpCount  int `json:"http_count"`
	FrameCount int `json:"frame_count"`
}

func (t Traffic) Summary() Summary {
	return Summary{
		HttpCount:  len(t.Http),
		FrameCount: len(t.Frames),
	}
}

// WriteJson dumps the captured traffic to a file.
func (t Traffic) WriteJson(path string) error {
	encoded, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0644)
}

// Run attaches network listeners to the session and records matching
// traffic until the configured duration elapses.
func Run(ctx context.Context, session *core.Session, config Config) (Traffic, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if config.Duration <= 0 {
		config.Duration = time.Second * 30
	}
	span.SetAttributes(
		attribute.String("kind", string(config.Kind)),
		attribute.String("url_filter", config.UrlFilter),
		attribute.String("duration", config.Duration.String()),
	)

	matches := func(url string) bool {
		return config.UrlFilter == "" || strings.Contains(url, config.UrlFilter)
	}

	var mu sync.Mutex
	var traffic Traffic
	recording := true

	if config.Kind != KindWebSocket {
		session.Browser.ListenHTTP(func(exchange browser.HTTPExchange) {
			mu.Lock()
			defer mu.Unlock()
			if recording && matches(exchange.URL) {
				traffic.Http = append(traffic.Http, exchange)
			}
		})
	}
	if config.Kind != KindHttp {
		session.Browser.ListenWebSocketFrames(func(frame browser.WebSocketFrame) {
			mu.Lock()
			defer mu.Unlock()
			if recording && matches(frame.URL) {
				traffic.Frames = append(traffic.Frames, frame)
			}
		})
	}

	select {
	case <-time.After(config.Duration):
	case <-ctx.Done():
	}

	mu.Lock()
	recording = false
	captured := traffic
	mu.Unlock()

	return captured, nil
}
