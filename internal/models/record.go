package models

import "time"

// IntakeRecord is the snapshot of a conversation's collected fields plus
// metadata, sent to the storage sink after every turn. Fields always
// contains every key of the intent's schema; values for fields the caller
// has not provided yet are empty strings, never omitted.
type IntakeRecord struct {
	Channel     Channel           `json:"channel"`
	ContactInfo string            `json:"contact_info"`
	Intent      Intent            `json:"intent"`
	Fields      map[string]string `json:"fields"`
	UpdateTime  time.Time         `json:"update_time"`
	Status      string            `json:"status"`
}
