package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// Handler exposes the chat endpoint and transcript reads over HTTP.
type Handler struct {
	orchestrator *Orchestrator
	history      *HistoryStore
	transcripts  *TranscriptStore
	logger       *logging.Logger
}

func NewHandler(orchestrator *Orchestrator, history *HistoryStore, transcripts *TranscriptStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		orchestrator: orchestrator,
		history:      history,
		transcripts:  transcripts,
		logger:       logger,
	}
}

// ChatRequest is the inbound turn payload. Messages is oldest-first and must
// be non-empty; UserID and SessionID are optional (anonymous callers can book).
type ChatRequest struct {
	Messages  []ChatMessage `json:"messages"`
	UserID    string        `json:"userId,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	SessionID string `json:"sessionId"`
	Degraded  bool   `json:"degraded,omitempty"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := h.orchestrator.HandleTurn(r.Context(), sessionID, req.Messages)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyHistory):
			writeError(w, http.StatusBadRequest, "messages must contain a user message")
		case errors.Is(err, ErrNoProviders):
			h.logger.Error("chat endpoint misconfigured", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "assistant is not configured")
		default:
			h.logger.Error("chat turn failed", "session_id", sessionID, "error", err.Error())
			writeError(w, http.StatusServiceUnavailable, "assistant is temporarily unavailable")
		}
		return
	}

	if h.history != nil {
		updated := append(req.Messages, ChatMessage{Role: ChatRoleAssistant, Content: reply.Content})
		if err := h.history.Save(r.Context(), sessionID, updated); err != nil {
			h.logger.Warn("failed to save session history", "session_id", sessionID, "error", err.Error())
		}
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Role:      ChatRoleAssistant,
		Content:   reply.Content,
		SessionID: sessionID,
		Degraded:  reply.Degraded,
	})
}

// History handles GET /admin/conversations/{conversationID}: the append-only
// transcript for one conversation, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	if conversationID == "" {
		writeError(w, http.StatusBadRequest, "conversationID is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.transcripts.History(r.Context(), conversationID, limit)
	if err != nil {
		h.logger.Error("failed to load transcript", "conversation_id", conversationID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load transcript")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversationId": conversationID,
		"messages":       entries,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
