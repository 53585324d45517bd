package chat

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestParseDomMessages(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="chat-1-window">
			<div class="chat-message"><span class="sender">alice</span>: AAPL earnings beat</div>
			<div class="chat-message"><strong>bob</strong> selling everything</div>
		</div>`))
	require.NoError(t, err)

	messages := ParseDomMessages(doc)
	require.Len(t, messages, 2)
	require.Equal(t, Message{Sender: "alice", Content: "AAPL earnings beat"}, messages[0])
	require.Equal(t, Message{Sender: "bob", Content: "selling everything"}, messages[1])
}

func TestParseDomMessagesMentionFallback(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="chat-1-window">
			<div class="chat-message">@carol: buying the dip</div>
		</div>`))
	require.NoError(t, err)

	messages := ParseDomMessages(doc)
	require.Len(t, messages, 1)
	require.Equal(t, Message{Sender: "carol", Content: "buying the dip"}, messages[0])
}

func TestParseDomMessagesEmpty(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="chat-1-window"></div>`))
	require.NoError(t, err)
	require.Nil(t, ParseDomMessages(doc))
}
