package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/evergreenclinic/clinic-platform/pkg/logging"
)

type fakeLLM struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeLLM) Name() string { return f.name }

func (f *fakeLLM) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	f.calls++
	if f.err != nil {
		return LLMResponse{}, f.err
	}
	return LLMResponse{Text: f.text}, nil
}

func TestGatewayRespectsOrderAndShortCircuits(t *testing.T) {
	a := &fakeLLM{name: "a", err: errors.New("boom")}
	b := &fakeLLM{name: "b", text: "hello"}
	c := &fakeLLM{name: "c", text: "never"}

	g := NewGateway([]LLMClient{a, b, c}, logging.Default())
	res, err := g.Complete(context.Background(), "sys", []ChatMessage{{Role: ChatRoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Provider != "b" {
		t.Errorf("expected provider b, got %s", res.Provider)
	}
	if res.Text != "hello" {
		t.Errorf("unexpected text: %s", res.Text)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("expected a and b called once, got %d/%d", a.calls, b.calls)
	}
	if c.calls != 0 {
		t.Errorf("expected c never invoked, got %d calls", c.calls)
	}
}

func TestGatewayExhaustionCarriesRateLimitFlag(t *testing.T) {
	a := &fakeLLM{name: "a", err: fmt.Errorf("%w: 429", ErrRateLimited)}
	b := &fakeLLM{name: "b", err: errors.New("timeout")}

	g := NewGateway([]LLMClient{a, b}, logging.Default())
	_, err := g.Complete(context.Background(), "sys", []ChatMessage{{Role: ChatRoleUser, Content: "hi"}})

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if !exhausted.RateLimited {
		t.Error("expected rate-limit observation to survive partial failover")
	}
	if len(exhausted.Attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(exhausted.Attempts))
	}
	if exhausted.Attempts[0].Outcome != OutcomeRateLimited {
		t.Errorf("expected first attempt rate_limited, got %s", exhausted.Attempts[0].Outcome)
	}
	if exhausted.Attempts[1].Outcome != OutcomeOtherError {
		t.Errorf("expected second attempt other_error, got %s", exhausted.Attempts[1].Outcome)
	}
}

func TestGatewayExhaustionWithoutRateLimit(t *testing.T) {
	a := &fakeLLM{name: "a", err: errors.New("boom")}

	g := NewGateway([]LLMClient{a}, logging.Default())
	_, err := g.Complete(context.Background(), "sys", []ChatMessage{{Role: ChatRoleUser, Content: "hi"}})

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.RateLimited {
		t.Error("did not expect rate-limit flag")
	}
}

func TestGatewayNoProvidersIsConfigurationError(t *testing.T) {
	g := NewGateway(nil, logging.Default())
	_, err := g.Complete(context.Background(), "sys", []ChatMessage{{Role: ChatRoleUser, Content: "hi"}})
	if !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}

func TestGatewayAttemptsEachProviderAtMostOnce(t *testing.T) {
	a := &fakeLLM{name: "a", err: fmt.Errorf("%w: 429", ErrRateLimited)}
	b := &fakeLLM{name: "b", err: fmt.Errorf("%w: 429", ErrRateLimited)}

	g := NewGateway([]LLMClient{a, b}, logging.Default())
	_, _ = g.Complete(context.Background(), "sys", []ChatMessage{{Role: ChatRoleUser, Content: "hi"}})

	if a.calls != 1 || b.calls != 1 {
		t.Errorf("expected exactly one attempt per provider, got %d/%d", a.calls, b.calls)
	}
}
