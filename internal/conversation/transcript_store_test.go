package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestTranscriptAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO chat_transcripts`).
		WithArgs(sqlmock.AnyArg(), "conv-1", ChatRoleUser, "hello", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewTranscriptStore(db)
	if err := store.Append(context.Background(), "conv-1", ChatRoleUser, "hello", ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestTranscriptHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, conversation_id, role, content, provider, created_at`).
		WithArgs("conv-1", 200).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "role", "content", "provider", "created_at"}).
			AddRow(uuid.New(), "conv-1", ChatRoleUser, "hello", "", now).
			AddRow(uuid.New(), "conv-1", ChatRoleAssistant, "hi there", "openai:gpt-4o-mini", now))

	store := NewTranscriptStore(db)
	entries, err := store.History(context.Background(), "conv-1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Provider != "openai:gpt-4o-mini" {
		t.Errorf("unexpected provider: %q", entries[1].Provider)
	}
}

func TestTranscriptNilStoreIsNoop(t *testing.T) {
	var store *TranscriptStore
	if err := store.Append(context.Background(), "conv-1", ChatRoleUser, "hello", ""); err != nil {
		t.Fatalf("nil store append should be a no-op, got %v", err)
	}
	entries, err := store.History(context.Background(), "conv-1", 10)
	if err != nil || entries != nil {
		t.Fatalf("nil store history should return nothing, got %v %v", entries, err)
	}
}
