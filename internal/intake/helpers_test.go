package intake

import (
	"context"
	"fmt"

	"github.com/goldenstatemt/intakeflow/internal/models"
	"github.com/openai/openai-go"
)

// scriptedOracle answers each oracle call based on which system prompt it
// received, so one mock serves the classifier, form preference detector,
// field extractor, and question generator at once.
type scriptedOracle struct {
	classifyResp string
	classifyErr  error
	formPrefResp string
	formPrefErr  error
	extractResp  string
	extractErr   error
	questionResp string
	questionErr  error

	// extractScript, when non-empty, overrides extractResp one turn at a
	// time for multi-turn tests.
	extractScript []string

	classifyCalls int
	formPrefCalls int
	extractCalls  int
	questionCalls int
}

func (o *scriptedOracle) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	switch systemPrompt {
	case intentClassificationPrompt:
		o.classifyCalls++
		return o.classifyResp, o.classifyErr
	case formPreferencePrompt:
		o.formPrefCalls++
		return o.formPrefResp, o.formPrefErr
	case fieldExtractionPrompt:
		o.extractCalls++
		if len(o.extractScript) > 0 {
			resp := o.extractScript[0]
			o.extractScript = o.extractScript[1:]
			return resp, o.extractErr
		}
		return o.extractResp, o.extractErr
	case nextQuestionPrompt:
		o.questionCalls++
		return o.questionResp, o.questionErr
	}
	return "", fmt.Errorf("unexpected system prompt: %.40q", systemPrompt)
}

func (o *scriptedOracle) GenerateWithMessages(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	return "", fmt.Errorf("GenerateWithMessages not scripted")
}

// recordingSink captures every snapshot written during a test.
type recordingSink struct {
	records []models.IntakeRecord
	err     error
}

func (s *recordingSink) UpsertIntake(rec models.IntakeRecord) error {
	s.records = append(s.records, rec)
	return s.err
}

func newTestOrchestrator(oracle *scriptedOracle, sink Sink) (*Orchestrator, *Registry) {
	reg := NewRegistry()
	return NewOrchestrator(oracle, reg, sink), reg
}
