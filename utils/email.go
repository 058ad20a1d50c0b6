package utils

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// DefaultSendGridHost is the public SendGrid API.
const DefaultSendGridHost = "https://api.sendgrid.com"

// Email is a single plain-text message to one recipient.
type Email struct {
	ToName    string
	ToAddress string
	Subject   string
	Text      string
}

// Mailer hands an Email to a mail relay.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// SendGridMailer sends email through the SendGrid v3 API.
type SendGridMailer struct {
	APIKey      string
	FromName    string
	FromAddress string
	// Host overrides the API base URL, mostly for tests.
	Host   string
	Logger *zap.Logger
}

// NewSendGridMailer creates a mailer for the given verified sender.
func NewSendGridMailer(apiKey, fromName, fromAddress string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		APIKey:      apiKey,
		FromName:    fromName,
		FromAddress: fromAddress,
		Host:        DefaultSendGridHost,
		Logger:      logger,
	}
}

// Send sends an email using SendGrid
func (m *SendGridMailer) Send(ctx context.Context, e Email) error {
	if m.APIKey == "" {
		return fmt.Errorf("SendGrid API key is not set")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(m.FromName, m.FromAddress))
	message.Subject = e.Subject
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(e.ToName, e.ToAddress))
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/plain", e.Text))

	request := sendgrid.GetRequest(m.APIKey, "/v3/mail/send", m.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		m.Logger.Error("error sending email", zap.String("to", e.ToAddress), zap.Error(err))
		return err
	}

	if response.StatusCode >= 400 {
		m.Logger.Error("SendGrid API error",
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body),
		)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	m.Logger.Info("email sent", zap.String("to", e.ToAddress), zap.Int("status", response.StatusCode))
	return nil
}
