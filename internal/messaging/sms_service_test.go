package messaging

import (
	"context"
	"errors"
	"testing"
)

type fakeSMSSender struct {
	to   []string
	body []string
	err  error
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, to string, body string) error {
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return f.err
}

func TestSMSValidateAndCanonicalizeRecipient(t *testing.T) {
	s := NewSMSService(&fakeSMSSender{})

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+15550001111", "+15550001111", false},
		{"(555) 000-1111", "+5550001111", false},
		{"555.000.1111", "+5550001111", false},
		{"+1 555 000 1111", "+15550001111", false},
		{"", "", true},
		{"not a number", "", true},
		{"12345", "", true},
	}
	for _, tc := range cases {
		got, err := s.ValidateAndCanonicalizeRecipient(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestSMSSendMessageCanonicalizesBeforeSending(t *testing.T) {
	sender := &fakeSMSSender{}
	s := NewSMSService(sender)

	if err := s.SendMessage(context.Background(), "(555) 000-1111", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.to) != 1 || sender.to[0] != "+5550001111" {
		t.Errorf("expected canonical recipient, got %v", sender.to)
	}
	if sender.body[0] != "hello" {
		t.Errorf("body not forwarded, got %q", sender.body[0])
	}
}

func TestSMSSendMessageInvalidRecipient(t *testing.T) {
	sender := &fakeSMSSender{}
	s := NewSMSService(sender)

	if err := s.SendMessage(context.Background(), "nope", "hello"); err == nil {
		t.Fatal("expected validation error")
	}
	if len(sender.to) != 0 {
		t.Error("invalid recipient must not reach the sender")
	}
}

func TestSMSSendMessagePropagatesSenderError(t *testing.T) {
	sender := &fakeSMSSender{err: errors.New("twilio down")}
	s := NewSMSService(sender)

	if err := s.SendMessage(context.Background(), "+15550001111", "hello"); err == nil {
		t.Fatal("expected sender error to propagate")
	}
}

func TestSMSServiceStop(t *testing.T) {
	sender := &fakeSMSSender{}
	s := NewSMSService(sender)

	if err := s.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if err := s.SendMessage(context.Background(), "+15550001111", "hello"); !errors.Is(err, ErrServiceStopped) {
		t.Errorf("expected ErrServiceStopped, got %v", err)
	}
	if len(sender.to) != 0 {
		t.Error("stopped service must not send")
	}
}
