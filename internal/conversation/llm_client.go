package conversation

import (
	"context"
	"errors"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type LLMRequest struct {
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float32
}

type LLMResponse struct {
	Text string
}

// ErrRateLimited marks a provider failure caused by rate limiting or quota
// exhaustion. Clients wrap their provider-specific errors with it so the
// gateway's failover loop can classify attempts without inspecting provider
// SDK types.
var ErrRateLimited = errors.New("conversation: provider rate limited")

// LLMClient is one upstream chat-completion provider.
type LLMClient interface {
	// Name identifies the provider in logs, metrics, and booking provenance.
	Name() string
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// Attempt outcomes recorded by the gateway during a failover loop.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeOtherError  = "other_error"
)

// ProviderAttempt records one gateway call. It exists only for the duration
// of a failover loop and is surfaced through logs and metrics, never persisted.
type ProviderAttempt struct {
	Provider string
	Outcome  string
	Err      error
}
