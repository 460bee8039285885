package conversation

import (
	"strings"
	"testing"
)

const sampleBlock = "```booking\n" +
	`{"kind":"create_appointment","patient_name":"Asha Rao","service":"Hydrotherapy","date":"2026-02-10","time":"15:00","phone":"9998887776"}` +
	"\n```"

func TestExtractActionParsesWellFormedBlock(t *testing.T) {
	raw := "Wonderful, you're all set!\n" + sampleBlock + "\nSee you soon."

	clean, intent := ExtractAction(raw)
	if intent == nil {
		t.Fatal("expected an intent")
	}
	if intent.PatientName != "Asha Rao" || intent.ServiceName != "Hydrotherapy" ||
		intent.Date != "2026-02-10" || intent.Time != "15:00" || intent.Phone != "9998887776" {
		t.Fatalf("unexpected intent: %#v", intent)
	}
	if strings.Contains(clean, "```") {
		t.Errorf("clean text still contains fence markers: %q", clean)
	}
	if strings.Contains(clean, "{") || strings.Contains(clean, "create_appointment") {
		t.Errorf("raw payload leaked into visible text: %q", clean)
	}
	if !strings.Contains(clean, "Wonderful") || !strings.Contains(clean, "See you soon.") {
		t.Errorf("surrounding prose was lost: %q", clean)
	}
}

func TestExtractActionNoBlock(t *testing.T) {
	clean, intent := ExtractAction("What date works best for you?")
	if intent != nil {
		t.Fatalf("unexpected intent: %#v", intent)
	}
	if clean != "What date works best for you?" {
		t.Errorf("text was altered: %q", clean)
	}
}

func TestExtractActionMalformedPayloadIsNoAction(t *testing.T) {
	raw := "Let me book that.\n```booking\n{not json at all\n```\nOne moment."

	clean, intent := ExtractAction(raw)
	if intent != nil {
		t.Fatalf("expected nil intent for malformed payload, got %#v", intent)
	}
	if strings.Contains(clean, "```") {
		t.Errorf("fence artifacts not stripped: %q", clean)
	}
	if !strings.Contains(clean, "Let me book that.") {
		t.Errorf("prose was lost: %q", clean)
	}
}

func TestExtractActionIgnoresUnknownKind(t *testing.T) {
	raw := "Done.\n```booking\n{\"kind\":\"cancel_appointment\",\"phone\":\"123\"}\n```"

	clean, intent := ExtractAction(raw)
	if intent != nil {
		t.Fatalf("expected unknown kind to be ignored, got %#v", intent)
	}
	if strings.Contains(clean, "```") {
		t.Errorf("fence artifacts not stripped: %q", clean)
	}
}

func TestExtractActionStripsStrayFences(t *testing.T) {
	clean, intent := ExtractAction("Here you go:\n```json\nnot a booking block\n```")
	if intent != nil {
		t.Fatalf("unexpected intent: %#v", intent)
	}
	if strings.Contains(clean, "```") {
		t.Errorf("stray fences not stripped: %q", clean)
	}
}
