package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/shopfront/backend/internal/domain/notification"
)

// SMTPConfig configures the SMTP provider
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// ImplicitTLS dials TLS directly (port 465). Otherwise STARTTLS is used when offered.
	ImplicitTLS bool
}

// SMTPProvider sends mail through an SMTP relay
type SMTPProvider struct {
	config SMTPConfig
	sender Sender
	now    func() time.Time
}

// NewSMTPProvider creates an SMTP provider
func NewSMTPProvider(cfg SMTPConfig, sender Sender) (*SMTPProvider, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp: host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPProvider{config: cfg, sender: sender, now: time.Now}, nil
}

// Name returns "smtp"
func (p *SMTPProvider) Name() string { return "smtp" }

// Send delivers msg in a single SMTP session
func (p *SMTPProvider) Send(ctx context.Context, msg notification.Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	body, err := buildMIME(p.sender, msg, p.now())
	if err != nil {
		return Permanent(err)
	}

	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, p.config.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if !p.config.ImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: p.config.Host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if p.config.Username != "" {
		auth := smtp.PlainAuth("", p.config.Username, p.config.Password, p.config.Host)
		if err := client.Auth(auth); err != nil {
			return Permanent(fmt.Errorf("smtp auth: %w", err))
		}
	}

	if err := client.Mail(p.sender.Email); err != nil {
		return classifySMTP("mail from", err)
	}
	for _, rcpt := range msg.Recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return classifySMTP("rcpt "+rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return classifySMTP("data", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return classifySMTP("data", err)
	}
	return client.Quit()
}

func (p *SMTPProvider) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))
	if p.config.ImplicitTLS {
		d := &tls.Dialer{Config: &tls.Config{ServerName: p.config.Host}}
		return d.DialContext(ctx, "tcp", addr)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// classifySMTP marks 5xx replies as permanent
func classifySMTP(stage string, err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) && tpErr.Code >= 500 {
		return Permanent(fmt.Errorf("smtp %s: %w", stage, err))
	}
	return fmt.Errorf("smtp %s: %w", stage, err)
}

// buildMIME renders msg as an RFC 5322 message. HTML bodies are sent as
// multipart/alternative with the plain text first.
func buildMIME(from Sender, msg notification.Message, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	header("From", from.Address())
	header("To", strings.Join(msg.Recipients, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", date.Format(time.RFC1123Z))
	header("Message-ID", "<"+msg.ID.String()+"@"+domainOf(from.Email)+">")
	header("MIME-Version", "1.0")

	if msg.HTMLBody == "" {
		header("Content-Type", "text/plain; charset=utf-8")
		header("Content-Transfer-Encoding", "8bit")
		buf.WriteString("\r\n")
		buf.WriteString(msg.Body)
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	header("Content-Type", `multipart/alternative; boundary="`+mw.Boundary()+`"`)
	buf.WriteString("\r\n")

	for _, part := range []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", msg.Body},
		{"text/html; charset=utf-8", msg.HTMLBody},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	buf.Write(parts.Bytes())
	return buf.Bytes(), nil
}

func domainOf(email string) string {
	if _, domain, ok := strings.Cut(email, "@"); ok && domain != "" {
		return domain
	}
	return "localhost"
}
