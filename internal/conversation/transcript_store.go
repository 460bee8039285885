package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TranscriptStore persists conversation turns to PostgreSQL as an
// append-only log. Writes are best-effort: the orchestrator calls them in a
// background goroutine and a failure never blocks or fails the turn.
type TranscriptStore struct {
	db *sql.DB
}

// NewTranscriptStore creates a transcript store. Returns nil if db is nil,
// which disables transcript logging (all methods are nil-safe).
func NewTranscriptStore(db *sql.DB) *TranscriptStore {
	if db == nil {
		return nil
	}
	return &TranscriptStore{db: db}
}

// TranscriptEntry is a single logged message within a conversation.
type TranscriptEntry struct {
	ID             uuid.UUID
	ConversationID string
	Role           string
	Content        string
	Provider       string
	CreatedAt      time.Time
}

// Append records one message. Safe to call on a nil store.
func (s *TranscriptStore) Append(ctx context.Context, conversationID, role, content, provider string) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_transcripts (id, conversation_id, role, content, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), conversationID, role, content, provider, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("conversation: failed to append transcript: %w", err)
	}
	return nil
}

// History returns the logged messages for a conversation, oldest first.
func (s *TranscriptStore) History(ctx context.Context, conversationID string, limit int) ([]TranscriptEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, provider, created_at
		FROM chat_transcripts
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2`,
		conversationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to query transcript: %w", err)
	}
	defer rows.Close()

	var entries []TranscriptEntry
	for rows.Next() {
		var e TranscriptEntry
		if err := rows.Scan(&e.ID, &e.ConversationID, &e.Role, &e.Content, &e.Provider, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("conversation: failed to scan transcript row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
