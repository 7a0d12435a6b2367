// Package notification holds the message type handed to the notifier.
package notification

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Message is one email-like notification
type Message struct {
	ID         uuid.UUID
	Subject    string
	Body       string
	HTMLBody   string
	Recipients []string
	// Kind labels the message for logs, e.g. "order.invoice"
	Kind string
}

// NewMessage creates a message with a fresh ID. Blank recipients are dropped.
func NewMessage(kind, subject, body string, recipients ...string) Message {
	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	return Message{
		ID:         uuid.New(),
		Kind:       kind,
		Subject:    subject,
		Body:       body,
		Recipients: to,
	}
}

// WithHTML attaches an HTML alternative
func (m Message) WithHTML(html string) Message {
	m.HTMLBody = html
	return m
}

// Notifier delivers messages on a best-effort basis. Send reports whether the
// message was accepted; delivery failures are logged by the implementation and
// never returned to the caller.
type Notifier interface {
	Send(ctx context.Context, msg Message) bool
}
