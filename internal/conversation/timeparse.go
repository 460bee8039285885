package conversation

import (
	"regexp"
	"strings"
)

// ampmMarker matches AM/PM markers, attached or spaced, with or without dots.
var ampmMarker = regexp.MustCompile(`(?i)\s*[ap]\.?m\.?`)

// NormalizeTime canonicalizes a loosely formatted time string into a strict
// zero-padded 24-hour "HH:MM" form. The system prompt instructs the model to
// use 24-hour time, but the model may not comply, so stray AM/PM markers are
// stripped. The result is purely syntactic: "25:00" passes through and the
// write layer surfaces the eventual storage error.
func NormalizeTime(raw string) string {
	s := ampmMarker.ReplaceAllString(raw, "")
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		s += ":00"
	}
	// Single-digit hour ("9:00") gets a leading zero.
	if len(s) < 5 {
		s = "0" + s
	}
	return s
}
