package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// OAIHTTPConfig configures a raw OpenAI-compatible chat completions client.
type OAIHTTPConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	// ChatCompletionsPath defaults to /chat/completions, appended to BaseURL.
	ChatCompletionsPath string
	Headers             map[string]string
	Options             Options
}

type OAIHTTP struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	chatPath   string
	headers    map[string]string
	opts       Options
	httpClient *http.Client
}

func NewOAIHTTP(cfg OAIHTTPConfig) (*OAIHTTP, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("oai_http: base_url required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("oai_http: model required")
	}
	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/chat/completions"
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = ProviderOAIHTTP
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &OAIHTTP{
		name:       name,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      strings.TrimSpace(cfg.Model),
		chatPath:   chatPath,
		headers:    cfg.Headers,
		opts:       cfg.Options,
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewOAIHTTPWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewOAIHTTPWithHTTPClient(cfg OAIHTTPConfig, httpClient *http.Client) (*OAIHTTP, error) {
	c, err := NewOAIHTTP(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

func (c *OAIHTTP) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

func (c *OAIHTTP) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	}

	var resp chatCompletionResponse
	if err := c.doJSON(ctx, http.MethodPost, c.chatPath, reqBody, &resp); err != nil {
		return "", err
	}
	// OpenRouter reports some upstream failures as 200 with an error object.
	if resp.Error != nil && len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: c.name, Status: http.StatusBadGateway, Reason: truncate(resp.Error.Message, 200)}
	}
	text := extractChatText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func (c *OAIHTTP) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &ProviderError{
			Provider: c.name,
			Status:   resp.StatusCode,
			Reason:   http.StatusText(resp.StatusCode),
			Body:     truncate(string(raw), 2000),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return transportError(c.name, ctx.Err())
		}
		return &ProviderError{Provider: c.name, Status: http.StatusBadGateway, Reason: "invalid completion body", Err: err}
	}
	return nil
}

func (c *OAIHTTP) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		if strings.TrimSpace(v) != "" {
			req.Header.Set(k, v)
		}
	}
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}
