// Package notify delivers notification messages through email providers on a
// background queue.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopfront/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// Provider sends one message synchronously
type Provider interface {
	Name() string
	Send(ctx context.Context, msg notification.Message) error
}

// Sender is the envelope sender shared by the providers
type Sender struct {
	Email string
	Name  string
}

// Address formats the sender as a RFC 5322 address
func (s Sender) Address() string {
	return (&mail.Address{Name: s.Name, Address: s.Email}).String()
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying, e.g. a rejected recipient
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// ErrNoRecipients is returned for a message without recipients
var ErrNoRecipients = errors.New("notify: message has no recipients")

func validate(msg notification.Message) error {
	if len(msg.Recipients) == 0 {
		return Permanent(ErrNoRecipients)
	}
	for _, r := range msg.Recipients {
		if _, err := mail.ParseAddress(r); err != nil {
			return Permanent(fmt.Errorf("notify: invalid recipient %q: %w", r, err))
		}
	}
	return nil
}

// LogProvider writes messages to the log instead of sending them
type LogProvider struct {
	logger *zap.Logger
}

// NewLogProvider creates a provider for development setups
func NewLogProvider(logger *zap.Logger) *LogProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogProvider{logger: logger}
}

// Name returns "log"
func (p *LogProvider) Name() string { return "log" }

// Send logs the message
func (p *LogProvider) Send(_ context.Context, msg notification.Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	p.logger.Info("Email",
		zap.String("message_id", msg.ID.String()),
		zap.String("kind", msg.Kind),
		zap.String("to", strings.Join(msg.Recipients, ", ")),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
