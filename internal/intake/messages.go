package intake

import (
	"fmt"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

// Fixed outbound messages. These go to callers verbatim.

// JotformLinkMessage is sent when a private-pay caller prefers the
// self-service form over the conversation.
const JotformLinkMessage = `Thank you for your interest!
You can fill out the form by clicking the link below:

https://form.jotform.com/GSMedTransport/Request

If you have any questions or need assistance, feel free to ask.`

const completeMessageTemplate = `Thank you - we've received the transport request for %s. We'll forward this to dispatch for review and follow up shortly.`

const completeDischargeMessageTemplate = `Thank you - we've received the discharge request for %s. Our dispatch team will review availability. If we're unavailable at the requested time, we'll call back with the next available option.`

// ClarificationMessage is sent when classification returns a label outside
// the fixed intent set. The conversation stays unclassified and the next
// inbound message retries classification.
const ClarificationMessage = `Thanks for reaching out! To route your request correctly, could you tell me which of these best describes you: a private-pay patient or family member, an insurance case manager, or hospital staff arranging a discharge?`

// ApologyMessage is attempted when outbound delivery fails and the
// conversation has to be abandoned.
const ApologyMessage = `I apologize, but I encountered an error. Please try again later.`

// completionMessage returns the terminal template for the intent with the
// patient name interpolated.
func completionMessage(intent models.Intent, patientName string) string {
	if intent == models.IntentDischarge {
		return fmt.Sprintf(completeDischargeMessageTemplate, patientName)
	}
	return fmt.Sprintf(completeMessageTemplate, patientName)
}

// CompletionAck returns the short per-intent confirmation layered on top of
// the terminal template for channels that send a closing acknowledgement.
func CompletionAck(intent models.Intent) string {
	switch intent {
	case models.IntentPrivatePay:
		return "Thanks! We'll prepare your quote and send a credit card form shortly to confirm."
	case models.IntentCaseManager:
		return "Thank you! We'll forward this to dispatch and confirm shortly."
	case models.IntentDischarge:
		return "Got it! Our dispatch team will review this now and follow up shortly."
	default:
		return "Thank you! We'll follow up shortly."
	}
}

// fallbackQuestion builds a deterministic consolidated question from the
// missing-field list, used when the question oracle errors or returns the
// completion sentinel while fields are still missing.
func fallbackQuestion(missing []string) string {
	labels := make([]string, len(missing))
	for i, name := range missing {
		labels[i] = strings.ReplaceAll(name, "_", " ")
	}
	return fmt.Sprintf("Could you please provide the following: %s?", strings.Join(labels, ", "))
}
