package llm

import (
	"context"
	"time"
)

type timeoutClient struct {
	inner    Client
	provider string
	timeout  time.Duration
}

// WithTimeout bounds every call to inner. A call that hits the deadline
// fails with TransportError{Timeout: true}.
func WithTimeout(inner Client, provider string, d time.Duration) Client {
	if d <= 0 {
		return inner
	}
	return &timeoutClient{inner: inner, provider: provider, timeout: d}
}

func (c *timeoutClient) Model() string { return c.inner.Model() }

func (c *timeoutClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.inner.Complete(ctx2, prompt)
	if err != nil && ctx2.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return "", &TransportError{Provider: c.provider, Timeout: true, Err: context.DeadlineExceeded}
	}
	return out, err
}
