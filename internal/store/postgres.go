// Package store provides storage sinks for intake records.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/goldenstatemt/intakeflow/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore is a PostgreSQL-backed IntakeStore.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// UpsertIntake inserts or updates the record keyed by (contact_info, intent).
func (s *PostgresStore) UpsertIntake(rec models.IntakeRecord) error {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		slog.Error("PostgresStore UpsertIntake marshal failed", "error", err, "contact_info", rec.ContactInfo)
		return fmt.Errorf("failed to marshal record fields: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO intake_records (contact_info, intent, channel, fields, status, update_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (contact_info, intent) DO UPDATE SET
			channel = EXCLUDED.channel,
			fields = EXCLUDED.fields,
			status = EXCLUDED.status,
			update_time = EXCLUDED.update_time`,
		rec.ContactInfo, rec.Intent, rec.Channel, string(fieldsJSON), rec.Status, rec.UpdateTime)
	if err != nil {
		slog.Error("PostgresStore UpsertIntake failed", "error", err, "contact_info", rec.ContactInfo, "intent", rec.Intent)
		return fmt.Errorf("failed to upsert intake record for %s: %w", rec.ContactInfo, err)
	}
	slog.Debug("PostgresStore UpsertIntake succeeded", "contact_info", rec.ContactInfo, "intent", rec.Intent, "status", rec.Status)
	return nil
}

// GetIntake retrieves a stored record, or nil when absent.
func (s *PostgresStore) GetIntake(contactInfo string, intent models.Intent) (*models.IntakeRecord, error) {
	row := s.db.QueryRow(`
		SELECT contact_info, intent, channel, fields, status, update_time
		FROM intake_records WHERE contact_info = $1 AND intent = $2`, contactInfo, intent)
	rec, err := scanIntakeRecord(row.Scan)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetIntake not found", "contact_info", contactInfo, "intent", intent)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetIntake failed", "error", err, "contact_info", contactInfo, "intent", intent)
		return nil, err
	}
	return rec, nil
}

// ListIntakes returns all stored records for an intent.
func (s *PostgresStore) ListIntakes(intent models.Intent) ([]models.IntakeRecord, error) {
	rows, err := s.db.Query(`
		SELECT contact_info, intent, channel, fields, status, update_time
		FROM intake_records WHERE intent = $1`, intent)
	if err != nil {
		slog.Error("PostgresStore ListIntakes query failed", "error", err, "intent", intent)
		return nil, fmt.Errorf("failed to query intake records: %w", err)
	}
	defer rows.Close()

	var records []models.IntakeRecord
	for rows.Next() {
		rec, err := scanIntakeRecord(rows.Scan)
		if err != nil {
			slog.Error("PostgresStore ListIntakes scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan intake record row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore ListIntakes rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate intake record rows: %w", err)
	}
	slog.Debug("PostgresStore ListIntakes succeeded", "intent", intent, "count", len(records))
	return records, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
