// Package intake implements the conversation-driven intake flow for
// non-emergency medical transport requests: intent classification, field
// extraction, completion evaluation, and the orchestrating state machine.
package intake

import "github.com/goldenstatemt/intakeflow/internal/models"

// Schema order matters: missing-field questions and stored records list
// fields in this order.
var requiredFieldsByIntent = map[models.Intent][]string{
	models.IntentPrivatePay: {
		"patient_name",
		"weight",
		"pickup_address",
		"drop_off_address",
		"appointment_date",
		"one_way_or_round_trip",
		"equipment_needed",
		"any_stairs_and_accompanying_passengers",
		"user_name",
		"phone_number",
		"email",
	},
	models.IntentCaseManager: {
		"patient_name",
		"pickup_address",
		"drop_off_address",
		"authorization_number",
		"appointment_date",
	},
	models.IntentDischarge: {
		"patient_name",
		"pickup_facility_name",
		"pickup_facility_address",
		"pickup_facility_room_number",
		"drop_off_facility_name",
		"drop_off_facility_address",
		"drop_off_facility_room_number",
		"appointment_date",
		"oxygen_is_needed",
		"oxygen_amount",
		"is_infectious_disease",
		"weight",
	},
}

// RequiredFields returns the ordered field names that must be collected for
// the given intent. Unknown intents yield an empty list. The returned slice
// is a copy; callers may keep it on conversation state without aliasing the
// table.
func RequiredFields(intent models.Intent) []string {
	fields, ok := requiredFieldsByIntent[intent]
	if !ok {
		return []string{}
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// MissingFields returns the required fields that have an empty or absent
// value in collected, preserving schema order.
func MissingFields(required []string, collected map[string]string) []string {
	var missing []string
	for _, name := range required {
		if collected[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
