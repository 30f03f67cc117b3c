package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

// storeRequest is the operator-facing direct store payload.
type storeRequest struct {
	Intent models.Intent       `json:"intent"`
	Data   models.IntakeRecord `json:"data"`
}

// handleStoreRecord upserts an intake record directly, bypassing the
// conversation flow. Used by operators to correct or backfill records.
func (s *Server) handleStoreRecord(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode store request", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Bad request"))
		return
	}

	rec := req.Data
	if req.Intent != models.IntentUnknown {
		rec.Intent = req.Intent
	}
	if !models.IsValidIntent(rec.Intent) || rec.ContactInfo == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing intent or contact_info"))
		return
	}

	if err := s.st.UpsertIntake(rec); err != nil {
		slog.Error("Direct store failed", "error", err, "contact_info", rec.ContactInfo, "intent", rec.Intent)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to store record"))
		return
	}

	slog.Info("Direct store succeeded", "contact_info", rec.ContactInfo, "intent", rec.Intent)
	writeJSONResponse(w, http.StatusOK, models.Recorded("Record stored"))
}
