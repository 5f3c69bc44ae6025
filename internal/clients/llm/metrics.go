package llm

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// CompletionObserver receives one observation per Complete call.
type CompletionObserver interface {
	ObserveCompletion(provider, model, outcome string, dur time.Duration)
}

type observedClient struct {
	inner    Client
	provider string
	obs      CompletionObserver
	now      func() time.Time
}

// WithMetrics reports each call's outcome and latency to obs. A nil obs
// returns inner unchanged.
func WithMetrics(inner Client, provider string, obs CompletionObserver) Client {
	if obs == nil {
		return inner
	}
	return &observedClient{inner: inner, provider: provider, obs: obs, now: time.Now}
}

func (c *observedClient) Model() string { return c.inner.Model() }

func (c *observedClient) Complete(ctx context.Context, prompt string) (string, error) {
	start := c.now()
	out, err := c.inner.Complete(ctx, prompt)
	c.obs.ObserveCompletion(c.provider, c.inner.Model(), Outcome(err), c.now().Sub(start))
	return out, err
}

// Outcome classifies a completion result for metrics labels.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, ErrEmptyCompletion) {
		return "empty"
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return "status_" + strconv.Itoa(pe.Status)
	}
	var te *TransportError
	if errors.As(err, &te) {
		if te.Timeout {
			return "timeout"
		}
		return "transport"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "error"
}
