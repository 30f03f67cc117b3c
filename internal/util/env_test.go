package util

import "testing"

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
		{" true ", false, true},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		t.Setenv("INTAKEFLOW_TEST_BOOL", tc.value)
		if got := ParseBoolEnv("INTAKEFLOW_TEST_BOOL", tc.def); got != tc.want {
			t.Errorf("ParseBoolEnv(%q, %v): expected %v, got %v", tc.value, tc.def, tc.want, got)
		}
	}
}

func TestParseBoolEnvUnset(t *testing.T) {
	if got := ParseBoolEnv("INTAKEFLOW_TEST_BOOL_UNSET", true); !got {
		t.Error("unset variable must return the default")
	}
	if got := ParseBoolEnv("INTAKEFLOW_TEST_BOOL_UNSET", false); got {
		t.Error("unset variable must return the default")
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("INTAKEFLOW_TEST_STRING", "configured")
	if got := EnvOrDefault("INTAKEFLOW_TEST_STRING", "fallback"); got != "configured" {
		t.Errorf("expected configured value, got %q", got)
	}
	if got := EnvOrDefault("INTAKEFLOW_TEST_STRING_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}
