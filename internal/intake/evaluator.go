package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/genai"
	"github.com/goldenstatemt/intakeflow/internal/models"
)

// Outcome is the completion evaluator's verdict for a turn.
type Outcome struct {
	Status  models.ConversationStatus // StatusComplete or StatusInProgress
	Message string                    // terminal template or follow-up question
}

// CompletionEvaluator decides whether a conversation has collected every
// required field, and generates the next follow-up question when it has
// not. It is the sole component allowed to mark a conversation complete.
//
// Completion itself is decided deterministically from the missing-field
// set; the oracle is only consulted to phrase the follow-up question.
type CompletionEvaluator struct {
	genaiClient genai.ClientInterface
}

// NewCompletionEvaluator creates a new completion evaluator.
func NewCompletionEvaluator(genaiClient genai.ClientInterface) *CompletionEvaluator {
	return &CompletionEvaluator{genaiClient: genaiClient}
}

// Evaluate computes the missing-field set for the conversation and returns
// either the terminal completion message or a single consolidated question
// covering exactly the missing fields.
func (ce *CompletionEvaluator) Evaluate(ctx context.Context, conv *models.Conversation) (Outcome, error) {
	missing := MissingFields(conv.RequiredFields, conv.CollectedFields)

	if len(missing) == 0 {
		slog.Info("CompletionEvaluator conversation complete", "contactKey", conv.ContactKey, "intent", conv.Intent)
		return Outcome{
			Status:  models.StatusComplete,
			Message: completionMessage(conv.Intent, conv.CollectedFields["patient_name"]),
		}, nil
	}

	slog.Debug("CompletionEvaluator fields missing", "contactKey", conv.ContactKey, "intent", conv.Intent, "missing_count", len(missing))

	question, err := ce.generateQuestion(ctx, conv, missing)
	if err != nil {
		// The turn must still produce a prompt for the caller; fall back to
		// a plain enumeration of the missing fields.
		slog.Warn("CompletionEvaluator question generation failed, using fallback", "error", err, "contactKey", conv.ContactKey)
		question = fallbackQuestion(missing)
	}

	return Outcome{Status: models.StatusInProgress, Message: question}, nil
}

// generateQuestion asks the oracle to phrase one question covering all
// missing fields. A COMPLETE sentinel while fields are missing means the
// oracle disagrees with the deterministic missing set; the reply is
// unusable as a question and is treated as a failure.
func (ce *CompletionEvaluator) generateQuestion(ctx context.Context, conv *models.Conversation, missing []string) (string, error) {
	collected := make([]string, 0, len(conv.CollectedFields))
	for _, name := range conv.RequiredFields {
		if conv.CollectedFields[name] != "" {
			collected = append(collected, fmt.Sprintf("%s=%s", name, conv.CollectedFields[name]))
		}
	}

	userPrompt := fmt.Sprintf("Intent: %s\nRequired fields: %s\nCollected fields: %s\nConversation history: %s",
		conv.Intent,
		strings.Join(conv.RequiredFields, ", "),
		strings.Join(collected, ", "),
		renderTranscript(conv.Messages))

	response, err := ce.genaiClient.GeneratePrompt(ctx, nextQuestionPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("next question generation failed: %w", err)
	}

	question := strings.TrimSpace(response)
	if question == "" || question == completeSentinel {
		return "", fmt.Errorf("oracle returned no usable question for %d missing fields", len(missing))
	}
	return question, nil
}
