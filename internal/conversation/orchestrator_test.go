package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/evergreenclinic/clinic-platform/internal/clinic"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

const bookingReply = "Perfect, you're booked!\n\n```booking\n" +
	`{"kind":"create_appointment","patient_name":"Asha Rao","service":"Hydrotherapy","date":"2026-02-10","time":"15:00","phone":"9998887776"}` +
	"\n```\n"

func newTestOrchestrator(llm LLMClient, catalog ServiceCatalog, booker AppointmentBooker) *Orchestrator {
	logger := logging.Default()
	cfg := OrchestratorConfig{
		Gateway:     NewGateway([]LLMClient{llm}, logger),
		Catalog:     catalog,
		Resolver:    NewServiceResolver(catalog, logger),
		Events:      NewEventLogger(logger),
		Logger:      logger,
		ClinicName:  "Evergreen Clinic",
		ClinicPhone: "+1-555-0100",
	}
	if booker != nil {
		cfg.Executor = NewBookingExecutor(booker, time.UTC, logger)
	}
	return NewOrchestrator(cfg)
}

func TestHandleTurnRejectsEmptyHistory(t *testing.T) {
	o := newTestOrchestrator(&fakeLLM{name: "a", text: "hi"}, &fakeCatalog{}, nil)

	_, err := o.HandleTurn(context.Background(), "conv-1", nil)
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}

	_, err = o.HandleTurn(context.Background(), "conv-1", []ChatMessage{{Role: ChatRoleAssistant, Content: "hello"}})
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory for assistant-only history, got %v", err)
	}
}

func TestHandleTurnPlainReply(t *testing.T) {
	llm := &fakeLLM{name: "openai:gpt-4o-mini", text: "We offer hydrotherapy and yoga. What day works for you?"}
	o := newTestOrchestrator(llm, &fakeCatalog{}, nil)

	reply, err := o.HandleTurn(context.Background(), "conv-1", []ChatMessage{{Role: ChatRoleUser, Content: "what do you offer?"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Content != llm.text {
		t.Errorf("expected reply verbatim, got %q", reply.Content)
	}
	if reply.Provider != "openai:gpt-4o-mini" {
		t.Errorf("unexpected provider: %q", reply.Provider)
	}
	if reply.Degraded || reply.BookedAppointmentID != "" {
		t.Errorf("unexpected reply flags: %#v", reply)
	}
}

func TestHandleTurnDegradedOnRateLimitedExhaustion(t *testing.T) {
	llm := &fakeLLM{name: "a", err: fmt.Errorf("%w: 429", ErrRateLimited)}
	o := newTestOrchestrator(llm, &fakeCatalog{}, nil)

	reply, err := o.HandleTurn(context.Background(), "conv-1", []ChatMessage{{Role: ChatRoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("rate-limited exhaustion must not surface as an error, got %v", err)
	}
	if !reply.Degraded {
		t.Error("expected degraded reply")
	}
	if !strings.Contains(reply.Content, "+1-555-0100") {
		t.Errorf("degraded reply must direct the caller to the clinic phone, got %q", reply.Content)
	}
}

func TestHandleTurnFailsOnPlainExhaustion(t *testing.T) {
	llm := &fakeLLM{name: "a", err: errors.New("upstream down")}
	o := newTestOrchestrator(llm, &fakeCatalog{}, nil)

	_, err := o.HandleTurn(context.Background(), "conv-1", []ChatMessage{{Role: ChatRoleUser, Content: "hi"}})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.RateLimited {
		t.Error("did not expect rate-limit flag")
	}
}

func TestHandleTurnEndToEndBooking(t *testing.T) {
	hydroID := uuid.New()
	catalog := &fakeCatalog{services: []clinic.Service{
		{ID: hydroID, Name: "Hydrotherapy", DurationMinutes: 60},
	}}
	booker := &fakeBooker{}
	llm := &fakeLLM{name: "openai:gpt-4o-mini", text: bookingReply}
	o := newTestOrchestrator(llm, catalog, booker)

	history := []ChatMessage{
		{Role: ChatRoleUser, Content: "I'm Asha Rao, I'd like hydrotherapy on 2026-02-10 at 3pm, my phone is 9998887776"},
	}
	reply, err := o.HandleTurn(context.Background(), "conv-1", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(booker.created) != 1 {
		t.Fatalf("expected exactly one appointment, got %d", len(booker.created))
	}
	created := booker.created[0]
	if created.StartsAt.Hour() != 15 || created.StartsAt.Minute() != 0 {
		t.Errorf("expected 15:00 start, got %s", created.StartsAt)
	}
	if created.ServiceID == nil || *created.ServiceID != hydroID {
		t.Errorf("expected resolved service id, got %v", created.ServiceID)
	}

	for _, want := range []string{"Asha Rao", "Hydrotherapy", "9998887776", "15:00"} {
		if !strings.Contains(reply.Content, want) {
			t.Errorf("confirmation missing %q: %q", want, reply.Content)
		}
	}
	if strings.Contains(reply.Content, "```") || strings.Contains(reply.Content, `"kind"`) {
		t.Errorf("raw action block leaked into reply: %q", reply.Content)
	}
	if reply.BookedAppointmentID == "" {
		t.Error("expected booked appointment id on reply")
	}
}

func TestHandleTurnNoWriteCollaborator(t *testing.T) {
	catalog := &fakeCatalog{services: []clinic.Service{{ID: uuid.New(), Name: "Hydrotherapy"}}}
	llm := &fakeLLM{name: "openai:gpt-4o-mini", text: bookingReply}
	o := newTestOrchestrator(llm, catalog, nil)

	reply, err := o.HandleTurn(context.Background(), "conv-1", []ChatMessage{{Role: ChatRoleUser, Content: "book me"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply.Content, "+1-555-0100") {
		t.Errorf("apology must direct the caller to the clinic phone, got %q", reply.Content)
	}
	if strings.Contains(reply.Content, "confirmed for") {
		t.Errorf("must not pretend success without a write collaborator: %q", reply.Content)
	}
	if reply.BookedAppointmentID != "" {
		t.Error("no appointment may be recorded without a write collaborator")
	}
}

func TestHandleTurnBookingWriteFailure(t *testing.T) {
	catalog := &fakeCatalog{services: []clinic.Service{{ID: uuid.New(), Name: "Hydrotherapy"}}}
	booker := &fakeBooker{err: errors.New("appointments: database unavailable")}
	llm := &fakeLLM{name: "openai:gpt-4o-mini", text: bookingReply}
	o := newTestOrchestrator(llm, catalog, booker)

	reply, err := o.HandleTurn(context.Background(), "conv-1", []ChatMessage{{Role: ChatRoleUser, Content: "book me"}})
	if err != nil {
		t.Fatalf("write failures stay inside the reply, got error %v", err)
	}
	if !strings.Contains(reply.Content, "database unavailable") {
		t.Errorf("failure reply should carry the storage error for diagnosis, got %q", reply.Content)
	}
	if reply.BookedAppointmentID != "" {
		t.Error("failed write must not report an appointment id")
	}
}
