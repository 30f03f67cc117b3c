package util

import (
	"reflect"
	"testing"
)

func TestExtractEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"jane@example.com", "jane@example.com"},
		{"Jane Doe <jane.doe@sub.example.com>", "jane.doe@sub.example.com"},
		{"reply to jane+intake@example.com please", "jane+intake@example.com"},
		{"no address here", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractEmail(tc.in); got != tc.want {
			t.Errorf("ExtractEmail(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestExtractJSONMap(t *testing.T) {
	got := ExtractJSONMap(`Here you go: {"patient_name": "Yuya", "authorization_number": 8, "is_infectious_disease": false} hope that helps`)
	want := map[string]string{
		"patient_name":          "Yuya",
		"authorization_number":  "8",
		"is_infectious_disease": "false",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractJSONMapDecimalNumbers(t *testing.T) {
	got := ExtractJSONMap(`{"weight": 72.5}`)
	if got["weight"] != "72.5" {
		t.Errorf("expected decimal preserved, got %q", got["weight"])
	}
}

func TestExtractJSONMapNoObject(t *testing.T) {
	if got := ExtractJSONMap("nothing structured at all"); got != nil {
		t.Errorf("expected nil for prose, got %v", got)
	}
}

func TestExtractJSONMapMalformed(t *testing.T) {
	if got := ExtractJSONMap(`{"broken": `); got != nil {
		t.Errorf("expected nil for unterminated object, got %v", got)
	}
	if got := ExtractJSONMap(`{not json}`); got != nil {
		t.Errorf("expected nil for invalid object, got %v", got)
	}
}

func TestExtractJSONMapIgnoresNonScalarValues(t *testing.T) {
	got := ExtractJSONMap(`{"patient_name": "Yuya", "notes": ["a", "b"]}`)
	if got["patient_name"] != "Yuya" {
		t.Errorf("scalar values must survive, got %v", got)
	}
	if _, ok := got["notes"]; ok {
		t.Errorf("non-scalar values must be dropped, got %v", got)
	}
}
