package llm

import (
	"context"
	"fmt"

	"github.com/yungbote/studyplan-backend/internal/config"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// NewProvider builds the bare provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	opts := Options{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
	switch cfg.Provider {
	case ProviderOpenRouter:
		return NewOpenRouterProvider(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Headers: map[string]string{"HTTP-Referer": cfg.AppReferer, "X-Title": cfg.AppTitle},
			Options: opts,
		})
	case ProviderOpenAI:
		return NewOpenAIProvider(OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Options: opts})
	case ProviderOAIHTTP:
		return NewOAIHTTP(OAIHTTPConfig{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.Model, Options: opts})
	case ProviderAnthropic:
		return NewAnthropicProvider(AnthropicConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Options: opts})
	case ProviderGemini:
		return NewGeminiProvider(ctx, GeminiConfig{APIKey: cfg.APIKey, Model: cfg.Model, Options: opts})
	case ProviderMock:
		return NewMock(cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// New builds the provider and wraps it, outermost first, in tracing, metrics,
// cache, retry, rate limit and per-attempt timeout. cache and obs may be nil.
func New(ctx context.Context, cfg config.LLMConfig, cache Cache, obs CompletionObserver, log *logger.Logger) (Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log = log.With("client", "llm", "provider", cfg.Provider, "model", p.Model())

	var c Client = p
	c = WithTimeout(c, cfg.Provider, cfg.Timeout.Duration)
	c = WithRateLimit(c, cfg.Provider, cfg.RateLimitRPS, cfg.RateLimitBurst)
	c = WithRetry(c, RetryConfig{
		MaxRetries: cfg.MaxRetries,
		BaseWait:   cfg.RetryBaseWait.Duration,
		MaxWait:    cfg.RetryMaxWait.Duration,
	}, log)
	if cache != nil {
		c = WithCache(c, cache, cfg.Provider, cfg.CacheTTL.Duration, log)
	}
	c = WithMetrics(c, cfg.Provider, obs)
	c = WithTracing(c, cfg.Provider)

	log.Info("llm client ready", "timeout", cfg.Timeout.Duration.String(), "max_retries", cfg.MaxRetries, "cache", cache != nil && cfg.CacheTTL.Duration > 0)
	return c, nil
}
