package llm

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedClient struct {
	inner    Client
	provider string
	limiter  *rate.Limiter
}

// WithRateLimit caps outbound calls at rps with the given burst. rps <= 0
// returns inner unchanged.
func WithRateLimit(inner Client, provider string, rps float64, burst int) Client {
	if rps <= 0 {
		return inner
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedClient{inner: inner, provider: provider, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (c *rateLimitedClient) Model() string { return c.inner.Model() }

func (c *rateLimitedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails early when the deadline cannot accommodate the reservation.
		return "", &TransportError{Provider: c.provider, Timeout: true, Err: err}
	}
	return c.inner.Complete(ctx, prompt)
}
