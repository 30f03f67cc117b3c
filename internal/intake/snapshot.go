package intake

import (
	"strings"
	"time"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

// chatFieldAliases maps the key vocabulary of the chat assistant's JSON
// summary onto the canonical schema names.
var chatFieldAliases = map[string]string{
	"dropoff_address":              "drop_off_address",
	"dropoff_facility_name":        "drop_off_facility_name",
	"dropoff_facility_address":     "drop_off_facility_address",
	"dropoff_facility_room_number": "drop_off_facility_room_number",
	"is_oxygen_needed":             "oxygen_is_needed",
}

// Snapshot builds the storage-sink record for the conversation's current
// state. Every field of the intent's schema is present; fields the caller
// has not provided yet carry empty strings so downstream columns line up.
func Snapshot(conv *models.Conversation) models.IntakeRecord {
	fields := make(map[string]string, len(conv.RequiredFields))
	for _, name := range RequiredFields(conv.Intent) {
		fields[name] = conv.CollectedFields[name]
	}
	return models.IntakeRecord{
		Channel:     conv.Channel,
		ContactInfo: conv.ContactKey,
		Intent:      conv.Intent,
		Fields:      fields,
		UpdateTime:  time.Now(),
		Status:      string(conv.Status),
	}
}

// ChatSnapshot builds a storage record from the chat assistant's final
// JSON summary. Chat records carry status "completed" and are only written
// on the final turn, unlike the turn-based channels. The summary's intent
// key picks the schema; unusable intents return ok=false.
func ChatSnapshot(data map[string]string, contactInfo string) (models.IntakeRecord, bool) {
	intent := normalizeIntentLabel(strings.TrimSpace(data["intent"]))
	if !models.IsValidIntent(intent) {
		return models.IntakeRecord{}, false
	}

	fields := make(map[string]string)
	for _, name := range RequiredFields(intent) {
		fields[name] = ""
	}
	for key, value := range data {
		if key == "intent" {
			continue
		}
		if canonical, ok := chatFieldAliases[key]; ok {
			key = canonical
		}
		if _, ok := fields[key]; ok {
			fields[key] = value
		}
	}

	return models.IntakeRecord{
		Channel:     models.ChannelChat,
		ContactInfo: contactInfo,
		Intent:      intent,
		Fields:      fields,
		UpdateTime:  time.Now(),
		Status:      "completed",
	}, true
}
