// Package chat monitors the terminal's chat windows, recovering
// messages from raw websocket frames with a DOM-scrape fallback, and
// archives everything it sees.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"godelterm/lib/browser"
	"godelterm/lib/notify"
	"godelterm/lib/scrapers/godel/core"
	"godelterm/services/archive"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/godel/chat")

const (
	frameCheckInterval = time.Millisecond * 200
	domPollInterval    = time.Second * 2

	// the frame buffer is trimmed back to frameBufferKeep once it
	// crosses frameBufferMax, old frames have been drained already
	frameBufferMax  = 1000
	frameBufferKeep = 500
)

type Config struct {
	// channel to monitor, empty records every channel
	Channel string `json:"channel"`
	// scrape rendered rows instead of listening to websocket frames
	UseDom bool `json:"use_dom"`
}

type Monitor struct {
	session  *core.Session
	archive  *archive.Service
	notifier notify.Notifier
	config   Config

	mu     sync.Mutex
	frames []string
	seen   map[string]struct{}
}

// NewMonitor wires a chat monitor. archiveService may be nil to skip
// persistence.
func NewMonitor(session *core.Session, archiveService *archive.Service, notifier notify.Notifier, config Config) *Monitor {
	return &Monitor{
		session:  session,
		archive:  archiveService,
		notifier: notifier,
		config:   config,
		seen:     map[string]struct{}{},
	}
}

// OpenChannel brings up the chat window, trying the channel-qualified
// command forms first.
func (m *Monitor) OpenChannel(ctx context.Context, channel string) error {
	ctx, span := tracer.Start(ctx, "OpenChannel")
	defer span.End()

	span.SetAttributes(attribute.String("channel", channel))

	commands := []string{"CHAT"}
	if channel != "" {
		channel = strings.TrimPrefix(channel, "#")
		commands = []string{
			fmt.Sprintf("CHAT #%s", channel),
			fmt.Sprintf("CHAT %s", channel),
			"CHAT",
		}
	}

	var err error
	for _, command := range commands {
		_, err = m.session.RunCommand(ctx, command)
		if err == nil {
			return nil
		}
		slog.WarnContext(ctx, "chat command failed", "command", command, "err", err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "failed to open chat window")
	return err
}

// Run captures messages until ctx is canceled, invoking onMessage for
// each new one. onMessage may be nil.
func (m *Monitor) Run(ctx context.Context, onMessage func(Message)) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	span.SetAttributes(
		attribute.String("channel", m.config.Channel),
		attribute.Bool("use_dom", m.config.UseDom),
	)

	if m.config.UseDom {
		return m.runDom(ctx, onMessage)
	}
	return m.runFrames(ctx, onMessage)
}

func (m *Monitor) runFrames(ctx context.Context, onMessage func(Message)) error {
	m.session.Browser.ListenWebSocketFrames(func(frame browser.WebSocketFrame) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.frames = append(m.frames, frame.Payload)
		if len(m.frames) > frameBufferMax {
			m.frames = m.frames[len(m.frames)-frameBufferKeep:]
		}
	})

	ticker := time.NewTicker(frameCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.mu.Lock()
			pending := m.frames
			m.frames = nil
			m.mu.Unlock()

			for _, payload := range pending {
				for _, msg := range ExtractMessages(payload) {
					m.process(ctx, msg, onMessage)
				}
			}
		}
	}
}

func (m *Monitor) runDom(ctx context.Context, onMessage func(Message)) error {
	ticker := time.NewTicker(domPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w, err := m.session.FindWindowByTitle(ctx, "CHAT")
			if err != nil {
				slog.WarnContext(ctx, "chat window not found", "err", err)
				continue
			}
			doc, err := w.Document(ctx)
			if err != nil {
				slog.WarnContext(ctx, "failed to snapshot chat window", "err", err)
				continue
			}
			for _, msg := range ParseDomMessages(doc) {
				m.process(ctx, msg, onMessage)
			}
		}
	}
}

// process runs the shared pipeline: channel filter, dedup, archive,
// keyword alert, callback.
func (m *Monitor) process(ctx context.Context, msg Message, onMessage func(Message)) {
	if m.config.Channel != "" {
		if msg.Channel != "" && !strings.EqualFold(msg.Channel, m.config.Channel) {
			return
		}
		if msg.Channel == "" {
			msg.Channel = m.config.Channel
		}
	}

	key := msg.DedupKey()
	if _, ok := m.seen[key]; ok {
		return
	}
	m.seen[key] = struct{}{}

	slog.DebugContext(
		ctx, "chat message",
		"channel", msg.Channel,
		"sender", msg.Sender,
	)

	if m.archive != nil {
		_, err := m.archive.RecordChatMessage(ctx, archive.ChatMessage{
			Channel:   msg.Channel,
			Sender:    msg.Sender,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			RawData:   msg.Raw,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to archive chat message", "err", err)
		}
	}

	if m.notifier.Enabled() && m.notifier.Matches(msg.Content) {
		err := m.notifier.AlertMessage(ctx, msg.Channel, msg.Sender, msg.Content)
		if err != nil {
			slog.ErrorContext(ctx, "failed to send chat alert", "err", err)
		}
	}

	if onMessage != nil {
		onMessage(msg)
	}
}
