package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/saspirant/notifier/internal/logger"
)

// ErrMissingAPIKey is returned when the sender is constructed without a
// SendGrid API key.
var ErrMissingAPIKey = errors.New("sendgrid api key not configured")

// Sender sends one rendered email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, toAddress, toName, subject, htmlBody string) error
}

// SendGridConfig holds the SendGrid credentials and sender identity.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender sends email through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridSender creates a sender, or ErrMissingAPIKey when unconfigured.
func NewSendGridSender(cfg SendGridConfig) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "Saspirant Alerts"
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(fromName, cfg.FromEmail),
	}, nil
}

// Send delivers one email. SendGrid reports success with a 2xx status.
func (s *SendGridSender) Send(ctx context.Context, toAddress, toName, subject, htmlBody string) error {
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(s.from, subject, to, "", htmlBody)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender logs messages instead of sending them. It stands in for a real
// sender when no SendGrid API key is configured, so development environments
// can run the full pipeline without delivering mail.
type LogSender struct {
	logger logger.Interface
}

// NewLogSender creates a log-only sender.
func NewLogSender(log logger.Interface) *LogSender {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &LogSender{logger: log}
}

// Send logs the message and reports success.
func (s *LogSender) Send(_ context.Context, toAddress, _, subject, _ string) error {
	s.logger.Info("Email suppressed (no sender configured)",
		"to", toAddress,
		"subject", subject)
	return nil
}
