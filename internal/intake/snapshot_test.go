package intake

import (
	"testing"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

func TestSnapshotFillsEverySchemaField(t *testing.T) {
	conv := models.NewConversation("+15550001111", models.ChannelSMS)
	conv.Intent = models.IntentCaseManager
	conv.Status = models.StatusInProgress
	conv.RequiredFields = RequiredFields(conv.Intent)
	conv.CollectedFields["patient_name"] = "Yuya"

	rec := Snapshot(conv)
	if rec.ContactInfo != "+15550001111" || rec.Channel != models.ChannelSMS {
		t.Errorf("identity not carried: %+v", rec)
	}
	if rec.Intent != models.IntentCaseManager || rec.Status != "in_progress" {
		t.Errorf("intent/status not carried: %+v", rec)
	}
	if len(rec.Fields) != len(conv.RequiredFields) {
		t.Fatalf("expected %d fields, got %d", len(conv.RequiredFields), len(rec.Fields))
	}
	if rec.Fields["patient_name"] != "Yuya" {
		t.Errorf("collected value missing: %v", rec.Fields)
	}
	if v, ok := rec.Fields["authorization_number"]; !ok || v != "" {
		t.Errorf("uncollected field must be present and empty, got %q (present=%v)", v, ok)
	}
	if rec.UpdateTime.IsZero() {
		t.Error("update time must be set")
	}
}

func TestChatSnapshotMapsAliases(t *testing.T) {
	data := map[string]string{
		"intent":               "CASE_MANAGER",
		"patient_name":         "Yuya",
		"pickup_address":       "NY",
		"dropoff_address":      "NY",
		"authorization_number": "8",
		"appointment_date":     "2028-01-04",
	}
	rec, ok := ChatSnapshot(data, "user")
	if !ok {
		t.Fatal("expected a usable record")
	}
	if rec.Intent != models.IntentCaseManager {
		t.Errorf("expected normalized intent, got %s", rec.Intent)
	}
	if rec.Fields["drop_off_address"] != "NY" {
		t.Errorf("dropoff_address alias not mapped: %v", rec.Fields)
	}
	if _, ok := rec.Fields["dropoff_address"]; ok {
		t.Error("alias key must not survive in the record")
	}
	if _, ok := rec.Fields["intent"]; ok {
		t.Error("intent key must not become a field")
	}
	if rec.Channel != models.ChannelChat || rec.Status != "completed" {
		t.Errorf("expected chat channel with completed status, got %+v", rec)
	}
}

func TestChatSnapshotDischargeAliases(t *testing.T) {
	data := map[string]string{
		"intent":                "DISCHARGE",
		"is_oxygen_needed":      "yes",
		"dropoff_facility_name": "St. Mary",
	}
	rec, ok := ChatSnapshot(data, "user")
	if !ok {
		t.Fatal("expected a usable record")
	}
	if rec.Fields["oxygen_is_needed"] != "yes" {
		t.Errorf("is_oxygen_needed alias not mapped: %v", rec.Fields)
	}
	if rec.Fields["drop_off_facility_name"] != "St. Mary" {
		t.Errorf("dropoff_facility_name alias not mapped: %v", rec.Fields)
	}
}

func TestChatSnapshotRejectsUnusableIntent(t *testing.T) {
	if _, ok := ChatSnapshot(map[string]string{"intent": "GIBBERISH"}, "user"); ok {
		t.Error("unusable intent must be rejected")
	}
	if _, ok := ChatSnapshot(map[string]string{"patient_name": "Yuya"}, "user"); ok {
		t.Error("missing intent must be rejected")
	}
}
