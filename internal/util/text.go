package util

import (
	"encoding/json"
	"regexp"
	"strconv"
)

var (
	emailRegex    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	jsonBlobRegex = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractEmail returns the first email address found in the given text,
// or "" if none is present. Inbound email webhooks deliver the sender as a
// display string ("Jane Doe <jane@example.com>"), so the address has to be
// pulled out before it can serve as a contact key.
func ExtractEmail(text string) string {
	return emailRegex.FindString(text)
}

// ExtractJSONMap finds the first JSON object embedded in free text and
// decodes it into a string map. Returns nil if no object is present or the
// object does not decode cleanly. Model replies wrap JSON in prose often
// enough that a bare json.Unmarshal on the whole reply is useless.
func ExtractJSONMap(text string) map[string]string {
	blob := jsonBlobRegex.FindString(text)
	if blob == "" {
		return nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64:
			// Models sometimes emit bare numbers for numeric fields
			// (authorization numbers, weights). Store them as strings.
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			fields[k] = strconv.FormatBool(val)
		}
	}
	return fields
}
