package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goldenstatemt/intakeflow/internal/intake"
	"github.com/goldenstatemt/intakeflow/internal/models"
	"github.com/goldenstatemt/intakeflow/internal/util"
	"github.com/openai/openai-go"
)

// chatRequest is the browser chat widget's payload: the running message
// history plus an optional session identifier used as the contact key.
type chatRequest struct {
	ContactKey string        `json:"contact_key,omitempty"`
	Messages   []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// handleChat proxies the web chat through a streamed completion. Deltas are
// forwarded to the browser until the reply starts with the completion
// sentinel; the trailing JSON summary is then stored as a completed intake
// record and a per-intent confirmation line is streamed in its place.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.streamer == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, models.Error("Chat channel is not configured"))
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode chat request", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Bad request"))
		return
	}
	if len(req.Messages) == 0 {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Missing messages"))
		return
	}
	contactKey := req.ContactKey
	if contactKey == "" {
		contactKey = "user"
	}

	messages := buildChatMessages(req.Messages)

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	var collected strings.Builder
	full, err := s.streamer.StreamWithMessages(r.Context(), messages, func(delta string) error {
		collected.WriteString(delta)
		// Once the reply reveals itself as the final summary, nothing more
		// goes to the browser; the JSON is for the storage sink only.
		if strings.HasPrefix(collected.String(), intake.ChatCompletionSentinel) {
			return nil
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			return err
		}
		if canFlush {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		slog.Error("Chat stream failed", "error", err, "contactKey", contactKey)
		return
	}

	if !strings.HasPrefix(full, intake.ChatCompletionSentinel) {
		return
	}

	data := util.ExtractJSONMap(full)
	if data == nil {
		slog.Warn("Chat completion sentinel without parsable JSON summary", "contactKey", contactKey)
		return
	}
	rec, ok := intake.ChatSnapshot(data, contactKey)
	if !ok {
		slog.Warn("Chat summary carried unusable intent", "contactKey", contactKey, "intent", data["intent"])
		return
	}

	if err := s.st.UpsertIntake(rec); err != nil {
		slog.Error("Chat record store failed", "error", err, "contactKey", contactKey, "intent", rec.Intent)
	} else {
		slog.Info("Chat record stored", "contactKey", contactKey, "intent", rec.Intent)
	}

	ack := "\n" + intake.CompletionAck(rec.Intent)
	if _, err := w.Write([]byte(ack)); err == nil && canFlush {
		flusher.Flush()
	}
}

// buildChatMessages converts the request history into completion messages,
// prepending the dispatch system prompt when the client did not send one.
func buildChatMessages(history []chatMessage) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)

	hasSystem := false
	for _, msg := range history {
		if msg.Role == "system" {
			hasSystem = true
			break
		}
	}
	if !hasSystem {
		messages = append(messages, openai.SystemMessage(intake.ChatSystemPrompt(time.Now())))
	}

	for _, msg := range history {
		switch msg.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}
