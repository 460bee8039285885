package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evergreenclinic/clinic-platform/internal/observability/metrics"
	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

// ErrNoProviders indicates the gateway was constructed without any usable
// providers. This is a configuration error, distinct from exhaustion.
var ErrNoProviders = errors.New("conversation: no model providers configured")

// ExhaustedError reports that every provider in the failover loop failed.
// RateLimited is true when at least one attempt failed on a rate limit; the
// orchestrator uses it to pick the degraded-reply wording.
type ExhaustedError struct {
	RateLimited bool
	Attempts    []ProviderAttempt
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("conversation: all %d model providers exhausted (rate_limited=%t)", len(e.Attempts), e.RateLimited)
}

// GatewayResult is a successful completion plus the provider that produced it.
type GatewayResult struct {
	Text     string
	Provider string
}

// Gateway tries an ordered list of providers and returns the first success.
// Each provider is attempted at most once per call: retrying a rate-limited
// provider within a turn would only amplify the rate limit.
type Gateway struct {
	providers   []LLMClient
	timeout     time.Duration
	temperature float32
	maxTokens   int
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
}

// GatewayOption configures the gateway.
type GatewayOption func(*Gateway)

// WithTimeout bounds each individual provider attempt.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithSampling overrides temperature and max tokens for completions.
func WithSampling(temperature float32, maxTokens int) GatewayOption {
	return func(g *Gateway) {
		g.temperature = temperature
		if maxTokens > 0 {
			g.maxTokens = maxTokens
		}
	}
}

// WithMetrics attaches provider-attempt metrics.
func WithMetrics(m *metrics.ChatMetrics) GatewayOption {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// NewGateway creates a gateway over the given providers, tried in order.
func NewGateway(providers []LLMClient, logger *logging.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = logging.Default()
	}
	g := &Gateway{
		providers: providers,
		timeout:   30 * time.Second,
		// Low randomness keeps structured blocks extraction-friendly.
		temperature: 0.2,
		maxTokens:   1024,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete runs the failover loop: one attempt per provider, first success
// wins, a single provider's error never aborts the loop.
func (g *Gateway) Complete(ctx context.Context, system string, messages []ChatMessage) (GatewayResult, error) {
	if len(g.providers) == 0 {
		return GatewayResult{}, ErrNoProviders
	}

	req := LLMRequest{
		System:      system,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	attempts := make([]ProviderAttempt, 0, len(g.providers))
	rateLimited := false

	for _, provider := range g.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		resp, err := provider.Complete(attemptCtx, req)
		cancel()

		if err == nil {
			attempts = append(attempts, ProviderAttempt{Provider: provider.Name(), Outcome: OutcomeSuccess})
			g.metrics.ObserveProviderAttempt(provider.Name(), OutcomeSuccess)
			return GatewayResult{Text: resp.Text, Provider: provider.Name()}, nil
		}

		outcome := OutcomeOtherError
		if errors.Is(err, ErrRateLimited) {
			outcome = OutcomeRateLimited
			rateLimited = true
		}
		attempts = append(attempts, ProviderAttempt{Provider: provider.Name(), Outcome: outcome, Err: err})
		g.metrics.ObserveProviderAttempt(provider.Name(), outcome)
		g.logger.Warn("model provider failed, trying next",
			"provider", provider.Name(),
			"outcome", outcome,
			"error", err.Error(),
		)
	}

	return GatewayResult{}, &ExhaustedError{RateLimited: rateLimited, Attempts: attempts}
}
