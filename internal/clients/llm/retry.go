package llm

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyplan-backend/internal/pkg/httpx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const maxRetries = 2

type RetryConfig struct {
	// MaxRetries is the number of extra attempts after the first; capped at 2.
	MaxRetries int
	BaseWait   time.Duration
	MaxWait    time.Duration
}

type retryClient struct {
	inner Client
	cfg   RetryConfig
	log   *logger.Logger
	sleep func(context.Context, time.Duration) error
}

// WithRetry retries transient failures (see IsRetryable) with jittered
// exponential backoff.
func WithRetry(inner Client, cfg RetryConfig, log *logger.Logger) Client {
	if cfg.MaxRetries <= 0 {
		return inner
	}
	if cfg.MaxRetries > maxRetries {
		cfg.MaxRetries = maxRetries
	}
	if log == nil {
		log = logger.Nop()
	}
	return &retryClient{inner: inner, cfg: cfg, log: log, sleep: httpx.Sleep}
}

func (c *retryClient) Model() string { return c.inner.Model() }

func (c *retryClient) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := httpx.Backoff(attempt-1, c.cfg.BaseWait, c.cfg.MaxWait)
			c.log.Warn("retrying completion", "attempt", attempt+1, "wait", wait.String(), "error", lastErr)
			trace.SpanFromContext(ctx).AddEvent("llm.retry", trace.WithAttributes(
				attribute.Int("llm.attempt", attempt+1),
				attribute.String("llm.error", lastErr.Error()),
			))
			if err := c.sleep(ctx, wait); err != nil {
				return "", lastErr
			}
		}

		out, err := c.inner.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || !IsRetryable(err) {
			return "", err
		}
	}
	return "", lastErr
}
