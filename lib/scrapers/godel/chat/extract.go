package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Message is one chat message recovered from websocket traffic or
// the DOM.
type Message struct {
	Id      string `json:"id,omitempty"`
	Channel string `json:"channel,omitempty"`
	Sender  string `json:"sender,omitempty"`
	Content string `json:"content"`
	// unix seconds
	Timestamp int64 `json:"timestamp,omitempty"`
	// the frame payload the message was extracted from
	Raw string `json:"-"`
}

// DedupKey identifies a message across redelivered frames: the
// server id when present, otherwise sender plus a content prefix.
func (m Message) DedupKey() string {
	if m.Id != "" {
		return m.Id
	}
	content := m.Content
	if len(content) > 50 {
		content = content[:50]
	}
	return m.Sender + ":" + content
}

var (
	contentKeys = []string{"text", "message", "content", "body", "msg"}
	senderKeys  = []string{"user", "sender", "author", "from", "username", "name"}
	channelKeys = []string{"channel", "room", "chat", "group"}
	timeKeys    = []string{"timestamp", "ts", "time", "created_at", "date"}
	idKeys      = []string{"id", "messageId", "msgId", "_id"}

	// event types that are chatter about the channel, not messages
	ignoredTypes = []string{"typing", "presence", "status", "read_receipt", "ping", "pong"}
)

// ExtractMessages decodes one websocket payload and pulls out every
// chat message it carries. Payloads come in several shapes: socket.io
// engine frames with a numeric prefix, bare event tuples, single
// objects, envelopes nesting the real payload, and arrays of any of
// those.
func ExtractMessages(payload string) []Message {
	decoded, ok := decodePayload(payload)
	if !ok {
		return nil
	}
	var messages []Message
	collectMessages(decoded, payload, &messages)
	return messages
}

// decodePayload strips the socket.io packet-type digits and parses
// the remaining JSON.
func decodePayload(payload string) (any, bool) {
	trimmed := strings.TrimSpace(payload)
	start := 0
	for start < len(trimmed) && trimmed[start] >= '0' && trimmed[start] <= '9' {
		start++
	}
	trimmed = trimmed[start:]
	if trimmed == "" {
		return nil, false
	}

	var decoded any
	err := json.Unmarshal([]byte(trimmed), &decoded)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func collectMessages(node any, raw string, out *[]Message) {
	switch v := node.(type) {
	case []any:
		// socket.io event tuple: ["event name", payload...]
		if len(v) >= 2 {
			if event, ok := v[0].(string); ok {
				if isIgnoredType(event) {
					return
				}
				for _, item := range v[1:] {
					collectMessages(item, raw, out)
				}
				return
			}
		}
		for _, item := range v {
			collectMessages(item, raw, out)
		}
	case map[string]any:
		if msgType, ok := stringField(v, "type"); ok && isIgnoredType(msgType) {
			return
		}
		if msg, ok := messageFromObject(v, raw); ok {
			*out = append(*out, msg)
			return
		}
		// envelopes nest the real payload one level down
		for _, key := range []string{"data", "payload", "body", "message", "event"} {
			if nested, ok := v[key]; ok {
				collectMessages(nested, raw, out)
			}
		}
	}
}

func isIgnoredType(msgType string) bool {
	lowered := strings.ToLower(msgType)
	for _, ignored := range ignoredTypes {
		if strings.Contains(lowered, ignored) {
			return true
		}
	}
	return false
}

// messageFromObject reads a chat message out of a flat object. An
// object without recognizable content is not a message.
func messageFromObject(obj map[string]any, raw string) (Message, bool) {
	content := ""
	for _, key := range contentKeys {
		if v, ok := stringField(obj, key); ok && v != "" {
			content = v
			break
		}
	}
	if content == "" {
		return Message{}, false
	}

	msg := Message{Content: content, Raw: raw}
	for _, key := range senderKeys {
		if v, ok := nameField(obj, key); ok && v != "" {
			msg.Sender = v
			break
		}
	}
	for _, key := range channelKeys {
		if v, ok := stringField(obj, key); ok && v != "" {
			msg.Channel = v
			break
		}
	}
	for _, key := range timeKeys {
		if v, ok := obj[key]; ok {
			if ts := parseTimestamp(v); ts != 0 {
				msg.Timestamp = ts
				break
			}
		}
	}
	for _, key := range idKeys {
		if v, ok := obj[key]; ok {
			msg.Id = scalarString(v)
			if msg.Id != "" {
				break
			}
		}
	}
	return msg, true
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// nameField accepts both plain strings and user objects carrying a
// name/username field.
func nameField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	switch user := v.(type) {
	case string:
		return user, true
	case map[string]any:
		for _, nested := range []string{"name", "username", "displayName", "display_name"} {
			if s, ok := stringField(user, nested); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// parseTimestamp normalizes second and millisecond epochs to unix
// seconds. Values above 1e12 can only be milliseconds.
func parseTimestamp(v any) int64 {
	switch ts := v.(type) {
	case float64:
		n := int64(ts)
		if n > 1e12 {
			return n / 1000
		}
		return n
	case string:
		// partial parses ("2024-01-01" yielding 2024) must not pass
		n, err := strconv.ParseFloat(strings.TrimSpace(ts), 64)
		if err != nil {
			return 0
		}
		return parseTimestamp(n)
	}
	return 0
}

func scalarString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprintf("%v", id)
	}
	return ""
}
