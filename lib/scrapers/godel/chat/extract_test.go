package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSocketIoFrame(t *testing.T) {
	payload := `42["message",{"id":"m1","channel":"general","user":"alice","text":"AAPL earnings beat","timestamp":1700000000}]`

	messages := ExtractMessages(payload)
	require.Len(t, messages, 1)
	require.Equal(t, Message{
		Id:        "m1",
		Channel:   "general",
		Sender:    "alice",
		Content:   "AAPL earnings beat",
		Timestamp: 1700000000,
		Raw:       payload,
	}, messages[0])
}

func TestExtractDirectObject(t *testing.T) {
	messages := ExtractMessages(`{"sender":"bob","content":"selling everything","room":"trading"}`)
	require.Len(t, messages, 1)
	require.Equal(t, "bob", messages[0].Sender)
	require.Equal(t, "selling everything", messages[0].Content)
	require.Equal(t, "trading", messages[0].Channel)
}

func TestExtractNestedEnvelope(t *testing.T) {
	messages := ExtractMessages(`{"type":"event","data":{"payload":{"msg":"hello","from":{"name":"carol"}}}}`)
	require.Len(t, messages, 1)
	require.Equal(t, "carol", messages[0].Sender)
	require.Equal(t, "hello", messages[0].Content)
}

func TestExtractArrayOfMessages(t *testing.T) {
	messages := ExtractMessages(`[{"text":"first","user":"a"},{"text":"second","user":"b"}]`)
	require.Len(t, messages, 2)
	require.Equal(t, "first", messages[0].Content)
	require.Equal(t, "second", messages[1].Content)
}

func TestExtractIgnoresPresence(t *testing.T) {
	require.Empty(t, ExtractMessages(`{"type":"typing","user":"alice","text":"..."}`))
	require.Empty(t, ExtractMessages(`42["presence",{"user":"alice","text":"online"}]`))
	require.Empty(t, ExtractMessages(`{"type":"read_receipt","message":"m1"}`))
}

func TestExtractMillisecondTimestamps(t *testing.T) {
	messages := ExtractMessages(`{"text":"hi","ts":1700000000000}`)
	require.Len(t, messages, 1)
	require.Equal(t, int64(1700000000), messages[0].Timestamp)
}

func TestExtractStringTimestamps(t *testing.T) {
	messages := ExtractMessages(`{"text":"hi","ts":"1700000000"}`)
	require.Len(t, messages, 1)
	require.Equal(t, int64(1700000000), messages[0].Timestamp)

	messages = ExtractMessages(`{"text":"hi","ts":"2024-01-01"}`)
	require.Len(t, messages, 1)
	require.Equal(t, int64(0), messages[0].Timestamp)
}

func TestExtractNumericId(t *testing.T) {
	messages := ExtractMessages(`{"text":"hi","id":42}`)
	require.Len(t, messages, 1)
	require.Equal(t, "42", messages[0].Id)
}

func TestExtractGarbage(t *testing.T) {
	require.Empty(t, ExtractMessages("not json at all"))
	require.Empty(t, ExtractMessages(""))
	require.Empty(t, ExtractMessages("3"))
	require.Empty(t, ExtractMessages(`{"no":"content here"}`))
}

func TestDedupKey(t *testing.T) {
	withId := Message{Id: "m1", Sender: "alice", Content: "hello"}
	require.Equal(t, "m1", withId.DedupKey())

	withoutId := Message{Sender: "alice", Content: "hello"}
	require.Equal(t, "alice:hello", withoutId.DedupKey())

	long := Message{Sender: "alice", Content: string(make([]byte, 200))}
	require.Len(t, long.DedupKey(), len("alice:")+50)
}
