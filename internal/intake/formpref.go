package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/genai"
)

// FormPreferenceDetector asks the oracle whether a private-pay caller would
// rather fill out the self-service form than continue the conversation.
type FormPreferenceDetector struct {
	genaiClient genai.ClientInterface
}

// NewFormPreferenceDetector creates a new form preference detector.
func NewFormPreferenceDetector(genaiClient genai.ClientInterface) *FormPreferenceDetector {
	return &FormPreferenceDetector{genaiClient: genaiClient}
}

// PrefersForm returns true when the caller explicitly asked for the form.
// Anything other than a clear YES counts as no, so a rambling oracle answer
// keeps the caller in the conversation rather than dead-ending them on a
// link they never asked for.
func (fd *FormPreferenceDetector) PrefersForm(ctx context.Context, latestUserText string) (bool, error) {
	slog.Debug("FormPreferenceDetector checking", "text_length", len(latestUserText))

	response, err := fd.genaiClient.GeneratePrompt(ctx, formPreferencePrompt, latestUserText)
	if err != nil {
		slog.Error("FormPreferenceDetector oracle call failed", "error", err)
		return false, fmt.Errorf("form preference check failed: %w", err)
	}

	answer := strings.ToUpper(strings.Trim(strings.TrimSpace(response), `."'`))
	prefers := answer == "YES" || answer == "Y" || answer == "TRUE"
	slog.Debug("FormPreferenceDetector result", "answer", answer, "prefers_form", prefers)
	return prefers, nil
}
