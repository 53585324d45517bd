// Package notify sends email alerts when monitored chat traffic
// matches configured keywords.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"godelterm/lib/textutil"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("godelterm.lib.notify")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Config struct {
	Smtp SmtpConfig `json:"smtp"`
	// alert recipients
	To []string `json:"to"`
	// case-insensitive substrings that trigger an alert
	Keywords []string `json:"keywords"`
}

type Notifier struct {
	config Config
}

func NewNotifier(config Config) Notifier {
	return Notifier{config: config}
}

// Matches reports whether the message content contains any of the
// configured keywords, ignoring case and whitespace.
func (n Notifier) Matches(content string) bool {
	var matchers []string
	for _, keyword := range n.config.Keywords {
		if keyword == "" {
			continue
		}
		matchers = append(matchers, textutil.NormalizeName(keyword))
	}
	return textutil.MatchName(content, matchers)
}

func (n Notifier) Enabled() bool {
	return n.config.Smtp.Server != "" && len(n.config.To) > 0
}

// AlertMessage emails the configured recipients about one matched
// chat message.
func (n Notifier) AlertMessage(ctx context.Context, channel, sender, content string) error {
	ctx, span := tracer.Start(ctx, "AlertMessage")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Godel Terminal Monitor <%s>", n.config.Smtp.EmailAddress)
	mail.To = n.config.To
	mail.Subject = fmt.Sprintf("Chat alert in #%s", channel)

	body := fmt.Sprintf(`A monitored chat message matched your keywords.

Channel: %s
Sender:  %s

%s`, channel, sender, content)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", n.config.Smtp.Server, n.config.Smtp.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", n.config.Smtp.EmailAddress, n.config.Smtp.Password, n.config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send alert email")
		return err
	}

	return nil
}
