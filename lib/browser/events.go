package browser

import (
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type FrameDirection string

const (
	FrameReceived FrameDirection = "received"
	FrameSent     FrameDirection = "sent"
)

// WebSocketFrame is one captured websocket payload with the url of
// the socket it traveled on.
type WebSocketFrame struct {
	URL       string
	Direction FrameDirection
	Payload   string
}

// ListenWebSocketFrames invokes fn for every websocket frame the tab
// sends or receives. Capture stops when the tab context ends.
func (b *Browser) ListenWebSocketFrames(fn func(frame WebSocketFrame)) {
	var mu sync.Mutex
	socketURLs := map[network.RequestID]string{}

	chromedp.ListenTarget(b.ctx, func(ev any) {
		switch e := ev.(type) {
		case *network.EventWebSocketCreated:
			mu.Lock()
			socketURLs[e.RequestID] = e.URL
			mu.Unlock()
		case *network.EventWebSocketFrameReceived:
			mu.Lock()
			url := socketURLs[e.RequestID]
			mu.Unlock()
			fn(WebSocketFrame{
				URL:       url,
				Direction: FrameReceived,
				Payload:   e.Response.PayloadData,
			})
		case *network.EventWebSocketFrameSent:
			mu.Lock()
			url := socketURLs[e.RequestID]
			mu.Unlock()
			fn(WebSocketFrame{
				URL:       url,
				Direction: FrameSent,
				Payload:   e.Response.PayloadData,
			})
		case *network.EventWebSocketClosed:
			mu.Lock()
			delete(socketURLs, e.RequestID)
			mu.Unlock()
		}
	})
}

// HTTPExchange is one request/response pair observed on the wire.
// Response fields stay zero when only the request was seen.
type HTTPExchange struct {
	URL      string
	Method   string
	Status   int64
	MimeType string
}

// ListenHTTP invokes fn for request and response events on the tab.
// The same url appears twice, once with Status 0 at request time and
// once when the response lands.
func (b *Browser) ListenHTTP(fn func(exchange HTTPExchange)) {
	chromedp.ListenTarget(b.ctx, func(ev any) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			fn(HTTPExchange{
				URL:    e.Request.URL,
				Method: e.Request.Method,
			})
		case *network.EventResponseReceived:
			fn(HTTPExchange{
				URL:      e.Response.URL,
				Status:   e.Response.Status,
				MimeType: e.Response.MimeType,
			})
		}
	})
}
