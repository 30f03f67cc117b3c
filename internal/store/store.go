// Package store provides storage sinks for completed and in-progress
// intake records.
//
// It includes an in-memory store for tests plus SQLite and PostgreSQL
// backends. All backends upsert by (contact_info, intent): a second write
// for the same contact updates the stored record instead of duplicating it.
package store

import (
	"sync"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

// IntakeStore is the storage sink consumed by the orchestrator and API.
type IntakeStore interface {
	// UpsertIntake inserts or updates the record keyed by (contact_info, intent).
	UpsertIntake(rec models.IntakeRecord) error

	// GetIntake retrieves a stored record, or nil when absent.
	GetIntake(contactInfo string, intent models.Intent) (*models.IntakeRecord, error)

	// ListIntakes returns all stored records for an intent.
	ListIntakes(intent models.Intent) ([]models.IntakeRecord, error)

	// Close releases the backend's resources.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// InMemoryStore is a map-backed IntakeStore used by tests and as the
// fallback when no DSN is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]models.IntakeRecord
}

type recordKey struct {
	contactInfo string
	intent      models.Intent
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[recordKey]models.IntakeRecord)}
}

// UpsertIntake inserts or replaces the record for (contact_info, intent).
func (s *InMemoryStore) UpsertIntake(rec models.IntakeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{rec.ContactInfo, rec.Intent}] = rec
	return nil
}

// GetIntake retrieves a stored record, or nil when absent.
func (s *InMemoryStore) GetIntake(contactInfo string, intent models.Intent) (*models.IntakeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[recordKey{contactInfo, intent}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListIntakes returns all stored records for an intent.
func (s *InMemoryStore) ListIntakes(intent models.Intent) ([]models.IntakeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.IntakeRecord
	for key, rec := range s.records {
		if key.intent == intent {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
