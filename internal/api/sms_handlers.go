package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goldenstatemt/intakeflow/internal/intake"
	"github.com/goldenstatemt/intakeflow/internal/messaging"
	"github.com/goldenstatemt/intakeflow/internal/models"
)

// handleIncomingSMS handles the Twilio inbound message webhook. One inbound
// SMS drives one orchestrator turn; the reply goes back out through the
// Twilio REST API rather than TwiML so long replies can be split later.
func (s *Server) handleIncomingSMS(w http.ResponseWriter, r *http.Request) {
	if s.smsService == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("SMS channel is not configured"))
		return
	}

	if err := r.ParseForm(); err != nil {
		slog.Error("Failed to parse Twilio webhook form", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Bad request"))
		return
	}

	from := r.FormValue("From")
	body := strings.TrimSpace(r.FormValue("Body"))
	if from == "" || body == "" {
		slog.Warn("SMS webhook missing fields", "from_set", from != "", "body_set", body != "")
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing required parameters"))
		return
	}

	contactKey, err := s.smsService.ValidateAndCanonicalizeRecipient(from)
	if err != nil {
		slog.Warn("SMS webhook invalid sender", "error", err, "from", from)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid sender"))
		return
	}

	slog.Info("Processing inbound SMS", "from", contactKey, "body_length", len(body))

	reply, err := s.orchestrator.HandleMessage(r.Context(), contactKey, models.ChannelSMS, body)
	if err != nil {
		if errors.Is(err, models.ErrMissingPayload) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing required parameters"))
			return
		}
		s.apologizeAndAbandon(r.Context(), s.smsService, contactKey)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process message"))
		return
	}

	outbound := reply.Text()
	if outbound == "" {
		outbound = "Could you please provide more information?"
	}
	if reply.Terminal && reply.Status == models.StatusComplete {
		outbound = outbound + "\n\n" + completionAckFor(reply)
	}

	if err := s.smsService.SendMessage(r.Context(), contactKey, outbound); err != nil {
		// Delivery failure ends the conversation; the caller's next message
		// starts fresh.
		slog.Error("SMS reply delivery failed", "error", err, "to", contactKey)
		s.apologizeAndAbandon(r.Context(), s.smsService, contactKey)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to deliver reply"))
		return
	}

	writeJSONResponse(w, http.StatusOK, models.Success(map[string]interface{}{
		"status":   string(reply.Status),
		"intent":   string(reply.Intent),
		"terminal": reply.Terminal,
	}))
}

// handleSMSStatus handles Twilio delivery status callbacks.
func (s *Server) handleSMSStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Bad request"))
		return
	}
	slog.Info("SMS status callback", "sid", r.FormValue("MessageSid"), "status", r.FormValue("MessageStatus"))
	writeJSONResponse(w, http.StatusOK, models.Success(nil))
}

// apologizeAndAbandon deletes the conversation and best-effort sends the
// generic apology. A retry from the caller starts a fresh conversation.
func (s *Server) apologizeAndAbandon(ctx context.Context, svc messaging.Service, contactKey string) {
	s.orchestrator.Abandon(contactKey)
	if svc == nil {
		return
	}
	if err := svc.SendMessage(ctx, contactKey, intake.ApologyMessage); err != nil {
		slog.Warn("Failed to deliver apology message", "error", err, "to", contactKey)
	}
}

// completionAckFor returns the per-intent closing acknowledgement for
// terminal completed turns.
func completionAckFor(reply intake.Reply) string {
	return intake.CompletionAck(reply.Intent)
}
