package llm

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/yungbote/studyplan-backend/internal/clients/llm"

type tracedClient struct {
	inner    Client
	provider string
	tracer   trace.Tracer
}

func WithTracing(inner Client, provider string) Client {
	return &tracedClient{inner: inner, provider: provider, tracer: otel.Tracer(tracerName)}
}

func (c *tracedClient) Model() string { return c.inner.Model() }

func (c *tracedClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "llm.complete", trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("llm.provider", c.provider),
		attribute.String("llm.model", c.inner.Model()),
		attribute.Int("llm.prompt_chars", utf8.RuneCountInString(prompt)),
	))
	defer span.End()

	out, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var pe *ProviderError
		if errors.As(err, &pe) {
			span.SetAttributes(attribute.Int("llm.upstream_status", pe.Status))
		}
		var te *TransportError
		if errors.As(err, &te) {
			span.SetAttributes(attribute.Bool("llm.timeout", te.Timeout))
		}
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.completion_chars", utf8.RuneCountInString(out)))
	return out, nil
}
