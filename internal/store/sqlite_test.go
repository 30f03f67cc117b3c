package store

import (
	"path/filepath"
	"testing"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "intake.db")
	s, err := NewSQLiteStore(WithSQLiteDSN(dsn))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRequiresDSN(t *testing.T) {
	if _, err := NewSQLiteStore(); err == nil {
		t.Error("expected error without a DSN")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)

	want := sampleRecord("+15550001111", models.IntentCaseManager)
	if err := s.UpsertIntake(want); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := s.GetIntake("+15550001111", models.IntentCaseManager)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record, got nil")
	}
	if got.ContactInfo != want.ContactInfo || got.Intent != want.Intent || got.Channel != want.Channel {
		t.Errorf("identity mismatch: %+v", got)
	}
	if got.Status != want.Status {
		t.Errorf("expected status %q, got %q", want.Status, got.Status)
	}
	if got.Fields["authorization_number"] != "8" || got.Fields["patient_name"] != "Yuya" {
		t.Errorf("fields not round-tripped: %v", got.Fields)
	}
}

func TestSQLiteStoreUpsertIsIdempotent(t *testing.T) {
	s := newTestSQLiteStore(t)

	rec := sampleRecord("+15550001111", models.IntentCaseManager)
	if err := s.UpsertIntake(rec); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	rec.Fields["authorization_number"] = "9"
	rec.Status = "in_progress"
	if err := s.UpsertIntake(rec); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	records, err := s.ListIntakes(models.IntentCaseManager)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("same (contact_info, intent) must stay one row, got %d", len(records))
	}
	if records[0].Fields["authorization_number"] != "9" || records[0].Status != "in_progress" {
		t.Errorf("conflict update must replace the row, got %+v", records[0])
	}
}

func TestSQLiteStoreGetAbsent(t *testing.T) {
	s := newTestSQLiteStore(t)

	rec, err := s.GetIntake("+15550009999", models.IntentDischarge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for absent record, got %+v", rec)
	}
}

func TestSQLiteStoreSeparatesIntents(t *testing.T) {
	s := newTestSQLiteStore(t)

	if err := s.UpsertIntake(sampleRecord("+15550001111", models.IntentCaseManager)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := s.UpsertIntake(sampleRecord("+15550001111", models.IntentDischarge)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	cm, err := s.ListIntakes(models.IntentCaseManager)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(cm) != 1 {
		t.Errorf("expected 1 case manager record, got %d", len(cm))
	}
}
