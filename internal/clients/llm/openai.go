package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	// Name is reported in errors and spans: "openai" or "openrouter".
	Name    string
	APIKey  string
	Model   string
	BaseURL string
	// Headers are added to every request (OpenRouter attribution).
	Headers map[string]string
	Options Options
}

// OpenAIProvider implements Client with go-openai. It also serves OpenRouter
// and any other OpenAI-compatible API via BaseURL.
type OpenAIProvider struct {
	name   string
	client *openai.Client
	model  string
	opts   Options
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = ProviderOpenAI
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%s model is required", name)
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if len(cfg.Headers) > 0 {
		config.HTTPClient = &http.Client{Transport: &headerTransport{base: http.DefaultTransport, headers: cfg.Headers}}
	}

	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		opts:   cfg.Options,
	}, nil
}

// NewOpenRouterProvider targets the OpenRouter API, which is OpenAI-compatible.
func NewOpenRouterProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	cfg.Name = ProviderOpenRouter
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	return NewOpenAIProvider(cfg)
}

func (p *OpenAIProvider) Model() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(p.opts.Temperature),
		MaxTokens:   p.opts.MaxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapOpenAIError(p.name, err)
	}
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content, nil
		}
	}
	return "", ErrEmptyCompletion
}

func mapOpenAIError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &ProviderError{
			Provider: provider,
			Status:   apiErr.HTTPStatusCode,
			Reason:   truncate(apiErr.Message, 200),
			Err:      err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &ProviderError{
			Provider: provider,
			Status:   reqErr.HTTPStatusCode,
			Reason:   http.StatusText(reqErr.HTTPStatusCode),
			Err:      err,
		}
	}
	return transportError(provider, err)
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if strings.TrimSpace(v) != "" {
			r.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(r)
}
