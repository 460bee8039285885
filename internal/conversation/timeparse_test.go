package conversation

import (
	"regexp"
	"testing"
)

var strictTime = regexp.MustCompile(`^\d{2}:\d{2}$`)

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9", "09:00"},
		{"14:30", "14:30"},
		{" 9:00 AM ", "09:00"},
		{"9:00", "09:00"},
		{"09:00", "09:00"},
		{"7 pm", "07:00"},
		{"7p.m.", "07:00"},
		{"15:00", "15:00"},
		{"11AM", "11:00"},
	}
	for _, tc := range cases {
		got := NormalizeTime(tc.in)
		if got != tc.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTimeIsIdempotentAndTotal(t *testing.T) {
	inputs := []string{"9", "9:00", "09:00", "14:30", " 9:00 AM ", "3 PM", "12pm", "0", "23:59"}
	for _, in := range inputs {
		once := NormalizeTime(in)
		twice := NormalizeTime(once)
		if once != twice {
			t.Errorf("NormalizeTime not idempotent for %q: %q != %q", in, once, twice)
		}
		if !strictTime.MatchString(once) {
			t.Errorf("NormalizeTime(%q) = %q does not match HH:MM", in, once)
		}
	}
}

func TestNormalizeTimeDoesNoSemanticValidation(t *testing.T) {
	// Syntactically plausible nonsense is passed through; the write layer
	// surfaces the ultimate error.
	if got := NormalizeTime("25"); got != "25:00" {
		t.Errorf("expected 25:00 passthrough, got %q", got)
	}
}
