package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/genai"
	"github.com/goldenstatemt/intakeflow/internal/models"
)

// IntentClassifier maps the first substantive caller utterance onto one of
// the fixed intent categories using the oracle.
type IntentClassifier struct {
	genaiClient genai.ClientInterface
}

// NewIntentClassifier creates a new intent classifier.
func NewIntentClassifier(genaiClient genai.ClientInterface) *IntentClassifier {
	return &IntentClassifier{genaiClient: genaiClient}
}

// Classify asks the oracle for an intent label. Labels outside the fixed
// set are returned verbatim; the orchestrator decides how to handle them.
// The CASE_MANAGER alias the classification prompt uses is normalized to
// the canonical INSURANCE_CASE_MANAGERS label.
func (ic *IntentClassifier) Classify(ctx context.Context, latestUserText string) (models.Intent, error) {
	slog.Debug("IntentClassifier classifying", "text_length", len(latestUserText))

	response, err := ic.genaiClient.GeneratePrompt(ctx, intentClassificationPrompt, latestUserText)
	if err != nil {
		slog.Error("IntentClassifier oracle call failed", "error", err)
		return models.IntentUnknown, fmt.Errorf("intent classification failed: %w", err)
	}

	label := strings.TrimSpace(response)
	intent := normalizeIntentLabel(label)
	slog.Info("IntentClassifier classified", "label", label, "intent", intent, "recognized", models.IsValidIntent(intent))
	return intent, nil
}

// normalizeIntentLabel maps the classification prompt's label vocabulary to
// canonical intents. Unrecognized labels pass through untouched.
func normalizeIntentLabel(label string) models.Intent {
	switch label {
	case "CASE_MANAGER", string(models.IntentCaseManager):
		return models.IntentCaseManager
	case string(models.IntentPrivatePay):
		return models.IntentPrivatePay
	case string(models.IntentDischarge):
		return models.IntentDischarge
	default:
		return models.Intent(label)
	}
}
