package chat

import (
	"regexp"
	"strings"

	"godelterm/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// selector cascade for message rows, most specific first
var messageSelectors = []string{
	".chat-message",
	"[class*='chat-message']",
	"[class*='message-item']",
	"[class*='message']",
}

var senderSelectors = []string{
	"[class*='sender']",
	"[class*='author']",
	"[class*='username']",
	"strong",
	"b",
}

var atMentionRegex = regexp.MustCompile(`^@?([\w\.\-]+):\s*(.+)$`)

// ParseDomMessages scrapes rendered chat rows out of a window
// snapshot. This is the fallback for channels whose history predates
// the websocket capture.
func ParseDomMessages(doc *goquery.Document) []Message {
	for _, selector := range messageSelectors {
		rows := doc.Find(selector)
		if rows.Length() == 0 {
			continue
		}

		var messages []Message
		rows.Each(func(_ int, row *goquery.Selection) {
			if msg, ok := messageFromRow(row); ok {
				messages = append(messages, msg)
			}
		})
		if len(messages) > 0 {
			return messages
		}
	}
	return nil
}

func messageFromRow(row *goquery.Selection) (Message, bool) {
	text := htmlutil.CleanText(row.Text())
	if text == "" {
		return Message{}, false
	}

	for _, selector := range senderSelectors {
		sender := htmlutil.CleanText(row.Find(selector).First().Text())
		if sender == "" {
			continue
		}
		content := strings.TrimSpace(strings.TrimPrefix(text, sender))
		content = strings.TrimSpace(strings.TrimPrefix(content, ":"))
		if content == "" {
			return Message{}, false
		}
		return Message{Sender: sender, Content: content}, true
	}

	// "@username: content" rendered as one text run
	if groups := atMentionRegex.FindStringSubmatch(text); groups != nil {
		return Message{Sender: groups[1], Content: groups[2]}, true
	}
	return Message{Content: text}, true
}
