package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goldenstatemt/intakeflow/internal/twiliosms"
)

// SMSService implements the Service interface over the Twilio SMS client.
type SMSService struct {
	client  twiliosms.Sender
	mu      sync.RWMutex
	stopped bool
}

// NewSMSService creates a new SMSService around a Twilio sender.
func NewSMSService(client twiliosms.Sender) *SMSService {
	return &SMSService{client: client}
}

// ValidateAndCanonicalizeRecipient validates and canonicalizes a phone
// number into E.164-ish form: digits only with a leading plus.
func (s *SMSService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("recipient cannot be empty")
	}

	digits := phoneNumberRegex.ReplaceAllString(recipient, "")
	if digits == "" {
		return "", fmt.Errorf("invalid phone number: no digits found in recipient %q", recipient)
	}
	if len(digits) < 6 {
		return "", fmt.Errorf("invalid phone number: %q is too short (minimum 6 digits required)", digits)
	}

	canonical := "+" + digits
	if canonical != strings.TrimSpace(recipient) {
		slog.Debug("SMSService canonicalized recipient", "original", recipient, "canonical", canonical)
	}
	return canonical, nil
}

// SendMessage sends an SMS via Twilio.
func (s *SMSService) SendMessage(ctx context.Context, to string, body string) error {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return ErrServiceStopped
	}
	s.mu.RUnlock()

	canonicalTo, err := s.ValidateAndCanonicalizeRecipient(to)
	if err != nil {
		slog.Error("SMSService SendMessage validation error", "error", err, "to", to)
		return err
	}

	if err := s.client.SendSMS(ctx, canonicalTo, body); err != nil {
		slog.Error("SMSService SendMessage failed", "error", err, "to", canonicalTo)
		return err
	}
	slog.Debug("SMSService message sent", "to", canonicalTo, "body_length", len(body))
	return nil
}

// Stop marks the service stopped; further sends fail with ErrServiceStopped.
func (s *SMSService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}
