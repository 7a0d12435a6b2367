package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopfront/backend/internal/domain/notification"
)

type sendgridAPI interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridProvider sends mail through the SendGrid v3 API
type SendGridProvider struct {
	client sendgridAPI
	sender Sender
}

// NewSendGridProvider creates a SendGrid provider
func NewSendGridProvider(apiKey string, sender Sender) (*SendGridProvider, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid: api key is required")
	}
	return &SendGridProvider{client: sendgrid.NewSendClient(apiKey), sender: sender}, nil
}

// Name returns "sendgrid"
func (p *SendGridProvider) Name() string { return "sendgrid" }

// Send posts one message addressed to all recipients
func (p *SendGridProvider) Send(ctx context.Context, msg notification.Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	resp, err := p.client.SendWithContext(ctx, buildSendGridMail(p.sender, msg))
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	default:
		return Permanent(fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body))
	}
}

func buildSendGridMail(sender Sender, msg notification.Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(sender.Name, sender.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, r := range msg.Recipients {
		p.AddTos(mail.NewEmail("", r))
	}
	m.AddPersonalizations(p)

	m.AddContent(mail.NewContent("text/plain", msg.Body))
	if msg.HTMLBody != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTMLBody))
	}
	m.SetCustomArg("message_id", msg.ID.String())

	// Transactional mail: links must stay untouched
	click := mail.NewClickTrackingSetting()
	click.SetEnable(false)
	click.SetEnableText(false)
	open := mail.NewOpenTrackingSetting()
	open.SetEnable(false)
	tracking := mail.NewTrackingSettings()
	tracking.SetClickTracking(click)
	tracking.SetOpenTracking(open)
	m.SetTrackingSettings(tracking)
	return m
}
