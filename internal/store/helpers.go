package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

// DetectDSNType classifies a DSN as "postgres" or "sqlite" so the caller
// can pick a backend without a separate driver flag.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// scanIntakeRecord scans one intake record row. The scan argument is
// sql.Row.Scan or sql.Rows.Scan; both backends share the column layout.
func scanIntakeRecord(scan func(dest ...interface{}) error) (*models.IntakeRecord, error) {
	var rec models.IntakeRecord
	var fieldsJSON string
	if err := scan(&rec.ContactInfo, &rec.Intent, &rec.Channel, &fieldsJSON, &rec.Status, &rec.UpdateTime); err != nil {
		return nil, err
	}
	rec.Fields = make(map[string]string)
	if fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode record fields: %w", err)
		}
	}
	return &rec, nil
}
