package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/genai"
	"github.com/goldenstatemt/intakeflow/internal/models"
	"github.com/goldenstatemt/intakeflow/internal/util"
)

// FieldExtractor pulls schema fields out of the caller's latest message
// using the oracle.
type FieldExtractor struct {
	genaiClient genai.ClientInterface
}

// NewFieldExtractor creates a new field extractor.
func NewFieldExtractor(genaiClient genai.ClientInterface) *FieldExtractor {
	return &FieldExtractor{genaiClient: genaiClient}
}

// Extract asks the oracle for the fields of the active intent that are
// explicitly present in the latest message, given the conversation so far.
// The result only ever contains keys from the intent's schema; anything
// else the oracle invents is dropped.
//
// When the oracle's reply cannot be parsed as a field map, Extract returns
// models.ErrExtractionUnparsable. Callers skip the merge for that turn and
// carry on; the failure is never surfaced to the caller's counterpart.
func (fe *FieldExtractor) Extract(ctx context.Context, intent models.Intent, conversation []models.Message, latestUserText string) (map[string]string, error) {
	slog.Debug("FieldExtractor extracting", "intent", intent, "history_length", len(conversation))

	userPrompt := fmt.Sprintf("Intent: %s\nConversation: %s\nMessage: %s",
		intent, renderTranscript(conversation), latestUserText)

	response, err := fe.genaiClient.GeneratePrompt(ctx, fieldExtractionPrompt, userPrompt)
	if err != nil {
		slog.Error("FieldExtractor oracle call failed", "error", err, "intent", intent)
		return nil, fmt.Errorf("field extraction failed: %w", err)
	}

	raw := util.ExtractJSONMap(response)
	if raw == nil {
		slog.Warn("FieldExtractor response unparsable, skipping merge", "intent", intent, "response_length", len(response))
		return nil, models.ErrExtractionUnparsable
	}

	fields := filterToSchema(intent, raw)
	slog.Debug("FieldExtractor extracted", "intent", intent, "field_count", len(fields))
	return fields, nil
}

// Merge applies extracted fields onto collected using last-write-wins for
// non-empty values. Keys are never deleted; empty extracted values never
// clobber collected ones.
func Merge(collected, extracted map[string]string) {
	for name, value := range extracted {
		if value == "" {
			continue
		}
		collected[name] = value
	}
}

// filterToSchema drops any extracted key that is not part of the intent's
// required field set.
func filterToSchema(intent models.Intent, raw map[string]string) map[string]string {
	allowed := make(map[string]bool)
	for _, name := range RequiredFields(intent) {
		allowed[name] = true
	}
	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		if allowed[name] {
			fields[name] = value
		} else {
			slog.Debug("FieldExtractor dropping off-schema field", "intent", intent, "field", name)
		}
	}
	return fields
}

// renderTranscript flattens the message log into the "role: text" lines the
// prompts expect.
func renderTranscript(messages []models.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Text)
	}
	return b.String()
}
