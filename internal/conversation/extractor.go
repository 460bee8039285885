package conversation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ActionCreateAppointment is the only action kind the agent executes.
// Payloads declaring any other kind are ignored, which keeps the block
// grammar forward compatible.
const ActionCreateAppointment = "create_appointment"

// BookingIntent is the structured, not-yet-validated description of a
// desired appointment extracted from model output. It lives only within a
// single turn's processing and is never persisted as-is.
type BookingIntent struct {
	Kind        string `json:"kind"`
	PatientName string `json:"patient_name"`
	ServiceName string `json:"service"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Phone       string `json:"phone"`
}

var (
	bookingBlock = regexp.MustCompile("(?s)```booking\\s*(.*?)```")
	fenceMarker  = regexp.MustCompile("```[a-zA-Z]*")
)

// ExtractAction scans assistant text for a fenced booking block. It returns
// the human-readable text with all fence artifacts stripped, plus the parsed
// intent when the block carries a well-formed create_appointment payload.
// Prose before or after the block is preserved. A payload that fails to
// parse, or declares an unrecognized kind, is treated as "no action".
func ExtractAction(raw string) (string, *BookingIntent) {
	match := bookingBlock.FindStringSubmatch(raw)
	if match == nil {
		return stripFences(raw), nil
	}

	clean := stripFences(strings.Replace(raw, match[0], "", 1))

	var intent BookingIntent
	if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &intent); err != nil {
		return clean, nil
	}
	if intent.Kind != ActionCreateAppointment {
		return clean, nil
	}
	return clean, &intent
}

func stripFences(s string) string {
	s = fenceMarker.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
