// Package models defines the core data structures for intakeflow.
//
// It includes conversation state, intake records, and the API response
// envelope shared across modules.
package models

import (
	"errors"
	"time"
)

// Channel identifies the transport a conversation arrived on.
type Channel string

const (
	// ChannelSMS is the Twilio SMS channel.
	ChannelSMS Channel = "sms"
	// ChannelEmail is the inbound email channel.
	ChannelEmail Channel = "email"
	// ChannelChat is the browser chat widget channel.
	ChannelChat Channel = "chat"
)

// IsValidChannel checks if the given channel is supported.
func IsValidChannel(c Channel) bool {
	switch c {
	case ChannelSMS, ChannelEmail, ChannelChat:
		return true
	default:
		return false
	}
}

// Intent is the purpose category of an intake conversation. It determines
// which fields must be collected before the request can go to dispatch.
type Intent string

const (
	// IntentPrivatePay covers patients or family members paying directly.
	IntentPrivatePay Intent = "PRIVATE_PAY"
	// IntentCaseManager covers insurance case manager referrals.
	IntentCaseManager Intent = "INSURANCE_CASE_MANAGERS"
	// IntentDischarge covers hospital discharge transports.
	IntentDischarge Intent = "DISCHARGE"
	// IntentUnknown means the conversation has not been classified yet.
	IntentUnknown Intent = ""
)

// IsValidIntent checks if the given intent is one of the fixed categories.
func IsValidIntent(i Intent) bool {
	switch i {
	case IntentPrivatePay, IntentCaseManager, IntentDischarge:
		return true
	default:
		return false
	}
}

// ConversationStatus tracks where a conversation is in its lifecycle.
type ConversationStatus string

const (
	// StatusInitialized is set when the conversation is first created.
	StatusInitialized ConversationStatus = "initialized"
	// StatusInProgress is set while required fields are still being collected.
	StatusInProgress ConversationStatus = "in_progress"
	// StatusJotformUsed is terminal: the caller was redirected to the
	// self-service form instead of continuing the conversation.
	StatusJotformUsed ConversationStatus = "jotform_used"
	// StatusComplete is terminal: every required field has been collected.
	StatusComplete ConversationStatus = "complete"
)

// IsTerminal reports whether the status ends the conversation.
func (s ConversationStatus) IsTerminal() bool {
	return s == StatusJotformUsed || s == StatusComplete
}

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	// RoleUser marks inbound messages from the caller.
	RoleUser MessageRole = "user"
	// RoleAssistant marks outbound messages generated by the intake bot.
	RoleAssistant MessageRole = "assistant"
)

// Message is a single entry in a conversation's append-only log.
type Message struct {
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// Conversation holds everything known about one intake conversation.
// One instance exists per contact key; mutation is serialized by the
// registry that owns it.
type Conversation struct {
	ContactKey      string             `json:"contact_key"`
	Channel         Channel            `json:"channel"`
	Messages        []Message          `json:"messages"`
	Intent          Intent             `json:"intent"`
	RequiredFields  []string           `json:"required_fields"`
	CollectedFields map[string]string  `json:"collected_fields"`
	Status          ConversationStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NewConversation creates an empty conversation for a contact key.
func NewConversation(contactKey string, channel Channel) *Conversation {
	now := time.Now()
	return &Conversation{
		ContactKey:      contactKey,
		Channel:         channel,
		Messages:        []Message{},
		Intent:          IntentUnknown,
		RequiredFields:  []string{},
		CollectedFields: make(map[string]string),
		Status:          StatusInitialized,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AppendUser appends an inbound caller message to the log.
func (c *Conversation) AppendUser(text string) {
	c.Messages = append(c.Messages, Message{Role: RoleUser, Text: text, Timestamp: time.Now()})
	c.UpdatedAt = time.Now()
}

// AppendAssistant appends an outbound bot message to the log.
func (c *Conversation) AppendAssistant(text string) {
	c.Messages = append(c.Messages, Message{Role: RoleAssistant, Text: text, Timestamp: time.Now()})
	c.UpdatedAt = time.Now()
}

// LastUserText returns the most recent caller message, or "" if none exists.
func (c *Conversation) LastUserText() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i].Text
		}
	}
	return ""
}

// LastAssistantText returns the most recent bot message, or "" if none exists.
func (c *Conversation) LastAssistantText() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i].Text
		}
	}
	return ""
}

// Error variables for better error handling and testability
var (
	ErrMissingPayload       = errors.New("inbound payload missing contact identity or message text")
	ErrExtractionUnparsable = errors.New("extraction response is not a structured field map")
	ErrDeliveryFailed       = errors.New("outbound channel delivery failed")
	ErrConversationDeleted  = errors.New("conversation was deleted")
)
