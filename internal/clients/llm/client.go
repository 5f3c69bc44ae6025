package llm

import "context"

// Client is the generation service: one prompt in, one raw completion out.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

const (
	ProviderOpenRouter = "openrouter"
	ProviderOAIHTTP    = "oai_http"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Options are the sampling knobs shared by every provider. Zero values mean
// "provider default".
type Options struct {
	Temperature float64
	MaxTokens   int
}
