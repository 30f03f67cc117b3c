package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// DefaultEmailSubject is the subject line used for intake replies.
const DefaultEmailSubject = "Re: Your Healthcare Intake Request"

// SMTPSender sends one email. Split out so tests can substitute a recorder
// for the real SMTP dial.
type SMTPSender func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// EmailOpts holds configuration options for the email service.
type EmailOpts struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Subject  string
	Sender   SMTPSender
}

// EmailOption defines a configuration option for the email service.
type EmailOption func(*EmailOpts)

// WithSMTPHost sets the SMTP server host.
func WithSMTPHost(host string) EmailOption {
	return func(o *EmailOpts) { o.Host = host }
}

// WithSMTPPort sets the SMTP server port.
func WithSMTPPort(port string) EmailOption {
	return func(o *EmailOpts) { o.Port = port }
}

// WithSMTPCredentials sets the SMTP auth credentials.
func WithSMTPCredentials(username, password string) EmailOption {
	return func(o *EmailOpts) { o.Username = username; o.Password = password }
}

// WithFromAddress sets the sending address.
func WithFromAddress(from string) EmailOption {
	return func(o *EmailOpts) { o.From = from }
}

// WithSubject overrides the reply subject line.
func WithSubject(subject string) EmailOption {
	return func(o *EmailOpts) { o.Subject = subject }
}

// WithSMTPSender substitutes the SMTP send function (used in tests).
func WithSMTPSender(sender SMTPSender) EmailOption {
	return func(o *EmailOpts) { o.Sender = sender }
}

// EmailService implements the Service interface over SMTP.
type EmailService struct {
	cfg EmailOpts
}

// NewEmailService creates a new EmailService.
func NewEmailService(opts ...EmailOption) (*EmailService, error) {
	var cfg EmailOpts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultEmailSubject
	}
	if cfg.Sender == nil {
		cfg.Sender = smtp.SendMail
	}
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("SMTP host and from address must be provided")
	}
	slog.Debug("Email service configured", "host", cfg.Host, "port", cfg.Port, "from", cfg.From, "auth_set", cfg.Username != "")
	return &EmailService{cfg: cfg}, nil
}

// ValidateAndCanonicalizeRecipient validates an email address, lowercasing
// the domain part.
func (s *EmailService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	canonical := strings.TrimSpace(recipient)
	if canonical == "" {
		return "", fmt.Errorf("recipient cannot be empty")
	}
	if !emailRegex.MatchString(canonical) {
		return "", fmt.Errorf("invalid email address %q", recipient)
	}
	at := strings.LastIndex(canonical, "@")
	canonical = canonical[:at] + strings.ToLower(canonical[at:])
	return canonical, nil
}

// SendMessage sends an intake reply email over SMTP.
func (s *EmailService) SendMessage(ctx context.Context, to string, body string) error {
	canonicalTo, err := s.ValidateAndCanonicalizeRecipient(to)
	if err != nil {
		slog.Error("EmailService SendMessage validation error", "error", err, "to", to)
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.From, canonicalTo, s.cfg.Subject, body)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := s.cfg.Sender(addr, auth, s.cfg.From, []string{canonicalTo}, []byte(msg)); err != nil {
		slog.Error("EmailService SendMessage failed", "error", err, "to", canonicalTo)
		return fmt.Errorf("failed to send email to %s: %w", canonicalTo, err)
	}
	slog.Debug("EmailService message sent", "to", canonicalTo, "body_length", len(body))
	return nil
}
