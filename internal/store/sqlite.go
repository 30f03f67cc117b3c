// Package store provides storage sinks for intake records.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/goldenstatemt/intakeflow/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore is a file-backed IntakeStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store. The DSN is a file path; the
// containing directory is created when missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// UpsertIntake inserts or updates the record keyed by (contact_info, intent).
func (s *SQLiteStore) UpsertIntake(rec models.IntakeRecord) error {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		slog.Error("SQLiteStore UpsertIntake marshal failed", "error", err, "contact_info", rec.ContactInfo)
		return fmt.Errorf("failed to marshal record fields: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO intake_records (contact_info, intent, channel, fields, status, update_time)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (contact_info, intent) DO UPDATE SET
			channel = excluded.channel,
			fields = excluded.fields,
			status = excluded.status,
			update_time = excluded.update_time`,
		rec.ContactInfo, rec.Intent, rec.Channel, string(fieldsJSON), rec.Status, rec.UpdateTime)
	if err != nil {
		slog.Error("SQLiteStore UpsertIntake failed", "error", err, "contact_info", rec.ContactInfo, "intent", rec.Intent)
		return fmt.Errorf("failed to upsert intake record for %s: %w", rec.ContactInfo, err)
	}
	slog.Debug("SQLiteStore UpsertIntake succeeded", "contact_info", rec.ContactInfo, "intent", rec.Intent, "status", rec.Status)
	return nil
}

// GetIntake retrieves a stored record, or nil when absent.
func (s *SQLiteStore) GetIntake(contactInfo string, intent models.Intent) (*models.IntakeRecord, error) {
	row := s.db.QueryRow(`
		SELECT contact_info, intent, channel, fields, status, update_time
		FROM intake_records WHERE contact_info = ? AND intent = ?`, contactInfo, intent)
	rec, err := scanIntakeRecord(row.Scan)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetIntake not found", "contact_info", contactInfo, "intent", intent)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetIntake failed", "error", err, "contact_info", contactInfo, "intent", intent)
		return nil, err
	}
	return rec, nil
}

// ListIntakes returns all stored records for an intent.
func (s *SQLiteStore) ListIntakes(intent models.Intent) ([]models.IntakeRecord, error) {
	rows, err := s.db.Query(`
		SELECT contact_info, intent, channel, fields, status, update_time
		FROM intake_records WHERE intent = ?`, intent)
	if err != nil {
		slog.Error("SQLiteStore ListIntakes query failed", "error", err, "intent", intent)
		return nil, fmt.Errorf("failed to query intake records: %w", err)
	}
	defer rows.Close()

	var records []models.IntakeRecord
	for rows.Next() {
		rec, err := scanIntakeRecord(rows.Scan)
		if err != nil {
			slog.Error("SQLiteStore ListIntakes scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan intake record row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore ListIntakes rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate intake record rows: %w", err)
	}
	slog.Debug("SQLiteStore ListIntakes succeeded", "intent", intent, "count", len(records))
	return records, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
