package intake

import (
	"context"
	"errors"
	"testing"
)

func TestPrefersForm(t *testing.T) {
	cases := []struct {
		response string
		want     bool
	}{
		{"YES", true},
		{"yes", true},
		{"Yes.", true},
		{`"YES"`, true},
		{"Y", true},
		{"TRUE", true},
		{"NO", false},
		{"no", false},
		{"", false},
		{"The user seems to want a form, so YES", false},
	}
	for _, tc := range cases {
		oracle := &scriptedOracle{formPrefResp: tc.response}
		fd := NewFormPreferenceDetector(oracle)
		got, err := fd.PrefersForm(context.Background(), "I'd like the form")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.response, err)
		}
		if got != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.response, tc.want, got)
		}
	}
}

func TestPrefersFormOracleError(t *testing.T) {
	oracle := &scriptedOracle{formPrefErr: errors.New("oracle down")}
	fd := NewFormPreferenceDetector(oracle)
	got, err := fd.PrefersForm(context.Background(), "form please")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got {
		t.Error("errored check must not report a form preference")
	}
}
