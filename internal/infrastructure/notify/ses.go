package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"
	"github.com/shopfront/backend/internal/domain/notification"
)

// SESConfig configures the Amazon SES provider. Without static keys the
// default AWS credential chain is used.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider sends mail through Amazon SES
type SESProvider struct {
	client sesAPI
	sender Sender
}

// NewSESProvider loads the AWS configuration and creates an SES client
func NewSESProvider(ctx context.Context, cfg SESConfig, sender Sender) (*SESProvider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}
	return newSESProvider(ses.NewFromConfig(awsCfg), sender), nil
}

func newSESProvider(client sesAPI, sender Sender) *SESProvider {
	return &SESProvider{client: client, sender: sender}
}

// Name returns "ses"
func (p *SESProvider) Name() string { return "ses" }

// Send calls SendEmail with text and optional HTML bodies
func (p *SESProvider) Send(ctx context.Context, msg notification.Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	body := &types.Body{
		Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(msg.Body)},
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(msg.HTMLBody)}
	}

	_, err := p.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(p.sender.Address()),
		Destination: &types.Destination{ToAddresses: msg.Recipients},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(msg.Subject)},
			Body:    body,
		},
	})
	if err != nil {
		return classifySES(err)
	}
	return nil
}

// classifySES marks rejected messages as permanent. Throttling and
// service errors stay retryable.
func classifySES(err error) error {
	var rejected *types.MessageRejected
	if errors.As(err, &rejected) {
		return Permanent(fmt.Errorf("ses: %w", err))
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultClient && apiErr.ErrorCode() != "Throttling" {
		return Permanent(fmt.Errorf("ses: %w", err))
	}
	return fmt.Errorf("ses: %w", err)
}
