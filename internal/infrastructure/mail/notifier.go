package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Notifier sends plain-text operational notifications
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// SMTPNotifier sends notifications through a plain SMTP relay
type SMTPNotifier struct {
	addr string
	from string
	to   []string
}

// NewSMTPNotifier creates an SMTPNotifier for the given relay
func NewSMTPNotifier(host string, port int, from string, to []string) *SMTPNotifier {
	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		to:   to,
	}
}

// Notify sends one message to all configured recipients
func (n *SMTPNotifier) Notify(_ context.Context, subject, body string) error {
	if len(n.to) == 0 {
		return nil
	}
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + strings.Join(n.to, ", "),
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(n.addr, nil, n.from, n.to, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send notification mail: %w", err)
	}
	return nil
}

// NoopNotifier discards notifications. Used when mail is disabled.
type NoopNotifier struct{}

// Notify does nothing
func (NoopNotifier) Notify(context.Context, string, string) error { return nil }

var (
	_ Notifier = (*SMTPNotifier)(nil)
	_ Notifier = NoopNotifier{}
)
