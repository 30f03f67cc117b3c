package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/models"
	"github.com/goldenstatemt/intakeflow/internal/util"
)

// emailWebhookPayload is the inbound email notification shape: the sender
// display string plus a body preview.
type emailWebhookPayload struct {
	Data struct {
		Sender  string `json:"sender"`
		Preview struct {
			Body string `json:"body"`
		} `json:"preview"`
	} `json:"data"`
}

// handleIncomingEmail handles the inbound email webhook. The sender address
// is the contact key; replies go back out over SMTP.
func (s *Server) handleIncomingEmail(w http.ResponseWriter, r *http.Request) {
	if s.emailService == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Email channel is not configured"))
		return
	}

	var payload emailWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Error("Failed to decode email webhook payload", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Bad request"))
		return
	}

	fromEmail := util.ExtractEmail(payload.Data.Sender)
	body := strings.TrimSpace(payload.Data.Preview.Body)
	if fromEmail == "" || body == "" {
		slog.Warn("Email webhook missing fields", "sender_set", fromEmail != "", "body_set", body != "")
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing sender address or message body"))
		return
	}

	slog.Info("Processing inbound email", "from", fromEmail, "body_length", len(body))

	reply, err := s.orchestrator.HandleMessage(r.Context(), fromEmail, models.ChannelEmail, body)
	if err != nil {
		if errors.Is(err, models.ErrMissingPayload) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing required parameters"))
			return
		}
		s.apologizeAndAbandon(r.Context(), s.emailService, fromEmail)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process message"))
		return
	}

	outbound := reply.Text()
	if outbound == "" {
		outbound = "Could you please provide more information?"
	}

	if err := s.emailService.SendMessage(r.Context(), fromEmail, outbound); err != nil {
		slog.Error("Email reply delivery failed", "error", err, "to", fromEmail)
		s.apologizeAndAbandon(r.Context(), s.emailService, fromEmail)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to deliver reply"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"status":   string(reply.Status),
		"intent":   string(reply.Intent),
		"terminal": reply.Terminal,
	}))
}
