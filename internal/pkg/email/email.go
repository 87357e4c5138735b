package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned when SMTP credentials are missing
var ErrNotConfigured = errors.New("email credentials not configured")

// Message is a single outgoing email with an HTML body and a plain-text alternative
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender delivers email messages
type Sender interface {
	// Configured reports whether credentials are present
	Configured() bool
	// Verify dials and authenticates against the relay without sending
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	// TLSPolicy is one of mandatory, opportunistic, none
	TLSPolicy string
	Timeout   time.Duration
}

// SMTPSender implements Sender on top of go-mail. A fresh client is built per
// call so concurrent sends never share a connection.
type SMTPSender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(config SMTPConfig, logger zerolog.Logger) *SMTPSender {
	if config.FromEmail == "" {
		config.FromEmail = config.Username
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &SMTPSender{
		config: config,
		logger: logger.With().Str("component", "smtp").Logger(),
	}
}

// Configured reports whether username and password are both set
func (s *SMTPSender) Configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// Verify opens and closes an authenticated connection to the relay
func (s *SMTPSender) Verify(ctx context.Context) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	client, err := s.newClient()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to smtp relay: %w", err)
	}
	if err := client.Close(); err != nil {
		s.logger.Debug().Err(err).Msg("Error closing smtp verification connection")
	}
	return nil
}

// Send delivers msg
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if !s.Configured() {
		s.logger.Warn().
			Str("toEmail", msg.To).
			Str("subject", msg.Subject).
			Msg("SMTP credentials not configured - email not sent")
		return ErrNotConfigured
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.config.FromName, s.config.FromEmail); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if msg.ToName != "" {
		if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
		}
	} else if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	if msg.TextBody != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.TextBody)
	}

	client, err := s.newClient()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) newClient() (*mail.Client, error) {
	client, err := mail.NewClient(s.config.Host,
		mail.WithPort(s.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Username),
		mail.WithPassword(s.config.Password),
		mail.WithTLSPolicy(tlsPolicy(s.config.TLSPolicy)),
		mail.WithTimeout(s.config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch strings.ToLower(name) {
	case "opportunistic":
		return mail.TLSOpportunistic
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSMandatory
	}
}
