package conversation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// TurnEvent is a structured event emitted at each decision point of a
// conversation turn. All events share the same base fields so logs can be
// filtered with a single grep:
//
//	grep '"event":"booking_created"' /var/log/app.log
//	grep '"conversation_id":"conv_abc"' /var/log/app.log
type TurnEvent struct {
	Time           string         `json:"time"`
	Event          string         `json:"event"`
	ConversationID string         `json:"conversation_id"`
	Data           map[string]any `json:"data,omitempty"`
}

// EventLogger emits structured JSON turn events. Nil-safe: a nil logger
// drops all events.
type EventLogger struct {
	logger *logging.Logger
}

func NewEventLogger(logger *logging.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

func (e *EventLogger) Log(_ context.Context, event, convID string, data map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	evt := TurnEvent{
		Time:           time.Now().UTC().Format(time.RFC3339Nano),
		Event:          event,
		ConversationID: convID,
		Data:           data,
	}
	b, _ := json.Marshal(evt)
	e.logger.Info(string(b))
}

func (e *EventLogger) TurnReceived(ctx context.Context, convID string, messageCount int) {
	e.Log(ctx, "turn_received", convID, map[string]any{"messages": messageCount})
}

func (e *EventLogger) ProviderAttempt(ctx context.Context, convID string, attempt ProviderAttempt) {
	data := map[string]any{
		"provider": attempt.Provider,
		"outcome":  attempt.Outcome,
	}
	if attempt.Err != nil {
		data["error"] = attempt.Err.Error()
	}
	e.Log(ctx, "provider_attempt", convID, data)
}

func (e *EventLogger) ActionExtracted(ctx context.Context, convID string, intent *BookingIntent) {
	e.Log(ctx, "action_extracted", convID, map[string]any{
		"kind":    intent.Kind,
		"service": intent.ServiceName,
		"date":    intent.Date,
		"time":    intent.Time,
	})
}

func (e *EventLogger) BookingCreated(ctx context.Context, convID, appointmentID string) {
	e.Log(ctx, "booking_created", convID, map[string]any{"appointment_id": appointmentID})
}

func (e *EventLogger) BookingFailed(ctx context.Context, convID string, err error) {
	e.Log(ctx, "booking_failed", convID, map[string]any{"error": err.Error()})
}

func (e *EventLogger) DegradedReply(ctx context.Context, convID string) {
	e.Log(ctx, "degraded_reply", convID, nil)
}
