package notify

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewProviderFromConfig builds the configured failover chain
func NewProviderFromConfig(ctx context.Context, cfg config.NotifyConfig, logger *zap.Logger) (Provider, error) {
	sender := Sender{Email: cfg.From, Name: cfg.FromName}

	providers := make([]Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		var (
			p   Provider
			err error
		)
		switch name {
		case "log":
			p = NewLogProvider(logger)
		case "smtp":
			p, err = NewSMTPProvider(SMTPConfig{
				Host:        cfg.SMTP.Host,
				Port:        cfg.SMTP.Port,
				Username:    cfg.SMTP.Username,
				Password:    cfg.SMTP.Password,
				ImplicitTLS: cfg.SMTP.UseTLS,
			}, sender)
		case "ses":
			p, err = NewSESProvider(ctx, SESConfig{
				Region:          cfg.SES.Region,
				AccessKeyID:     cfg.SES.AccessKeyID,
				SecretAccessKey: cfg.SES.SecretAccessKey,
			}, sender)
		case "sendgrid":
			p, err = NewSendGridProvider(cfg.SendGrid.APIKey, sender)
		default:
			err = fmt.Errorf("unknown provider")
		}
		if err != nil {
			return nil, fmt.Errorf("notify provider %q: %w", name, err)
		}
		providers = append(providers, p)
	}
	chain, err := NewFailover(providers, DefaultBreakerConfig(), logger)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// NewDispatcherConfig maps the notify section of the configuration
func NewDispatcherConfig(cfg config.NotifyConfig) DispatcherConfig {
	return DispatcherConfig{
		Workers:        cfg.Workers,
		QueueSize:      cfg.QueueSize,
		MaxAttempts:    cfg.MaxAttempts,
		BaseBackoff:    cfg.BaseBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		SendTimeout:    cfg.SendTimeout,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
}
