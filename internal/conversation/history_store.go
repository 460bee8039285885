package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const historyTTL = 24 * time.Hour

// HistoryStore keeps the rolling message history for active conversations in
// Redis. Entries expire after 24 hours of inactivity; long-term records live
// in the transcript store.
type HistoryStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

func NewHistoryStore(client *redis.Client) *HistoryStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &HistoryStore{
		redis:  client,
		tracer: otel.Tracer("clinic.internal.conversation.history"),
	}
}

func (s *HistoryStore) Save(ctx context.Context, conversationID string, history []ChatMessage) error {
	ctx, span := s.tracer.Start(ctx, "conversation.save_history")
	defer span.End()

	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(conversationID), data, historyTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist history: %w", err)
	}
	return nil
}

// Load returns the stored history, or an empty slice for a conversation that
// has no history yet (or whose history expired).
func (s *HistoryStore) Load(ctx context.Context, conversationID string) ([]ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(conversationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load history: %w", err)
	}

	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to decode history: %w", err)
	}
	return history, nil
}

func historyKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}
