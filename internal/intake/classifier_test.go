package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

func TestClassifyRecognizedLabels(t *testing.T) {
	cases := []struct {
		response string
		want     models.Intent
	}{
		{"PRIVATE_PAY", models.IntentPrivatePay},
		{"CASE_MANAGER", models.IntentCaseManager},
		{"INSURANCE_CASE_MANAGERS", models.IntentCaseManager},
		{"DISCHARGE", models.IntentDischarge},
		{"  DISCHARGE\n", models.IntentDischarge},
	}
	for _, tc := range cases {
		oracle := &scriptedOracle{classifyResp: tc.response}
		ic := NewIntentClassifier(oracle)
		intent, err := ic.Classify(context.Background(), "hello")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.response, err)
		}
		if intent != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.response, tc.want, intent)
		}
	}
}

func TestClassifyUnrecognizedLabelPassesThrough(t *testing.T) {
	oracle := &scriptedOracle{classifyResp: "SOMETHING_ELSE"}
	ic := NewIntentClassifier(oracle)
	intent, err := ic.Classify(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent != models.Intent("SOMETHING_ELSE") {
		t.Errorf("expected verbatim label, got %q", intent)
	}
	if models.IsValidIntent(intent) {
		t.Errorf("unrecognized label must not validate as an intent")
	}
}

func TestClassifyOracleError(t *testing.T) {
	oracle := &scriptedOracle{classifyErr: errors.New("oracle down")}
	ic := NewIntentClassifier(oracle)
	intent, err := ic.Classify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if intent != models.IntentUnknown {
		t.Errorf("expected unknown intent on error, got %q", intent)
	}
}
