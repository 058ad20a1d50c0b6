package utils

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPMailer relays email through an SMTP server with PLAIN auth, using
// STARTTLS whenever the server offers it.
type SMTPMailer struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
	Logger      *zap.Logger

	now func() time.Time
}

// NewSMTPMailer creates a mailer that logs in as username and sends from it.
func NewSMTPMailer(host string, port int, username, password, fromName string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		Host:        host,
		Port:        port,
		Username:    username,
		Password:    password,
		FromName:    fromName,
		FromAddress: username,
		Logger:      logger,
		now:         time.Now,
	}
}

// Send delivers e over a fresh connection. Dialing and the session are bound
// to ctx.
func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))

	msg, err := m.message(e)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.Host,
		gomail.WithPort(m.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.Username),
		gomail.WithPassword(m.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client for %s: %w", addr, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.Logger.Error("error sending email", zap.String("to", e.ToAddress), zap.String("relay", addr), zap.Error(err))
		return fmt.Errorf("failed to send via %s: %w", addr, err)
	}

	m.Logger.Info("email sent", zap.String("to", e.ToAddress))
	return nil
}

func (m *SMTPMailer) message(e Email) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.FromName, m.FromAddress); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.FromAddress, err)
	}
	if err := msg.AddToFormat(e.ToName, e.ToAddress); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", e.ToAddress, err)
	}
	msg.Subject(e.Subject)
	msg.SetDateWithValue(m.now())
	msg.SetBodyString(gomail.TypeTextPlain, e.Text)
	return msg, nil
}
