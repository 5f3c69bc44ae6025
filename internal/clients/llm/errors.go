package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/pkg/httpx"
)

var ErrEmptyCompletion = errors.New("empty upstream completion")

// ProviderError is an upstream failure that carried an HTTP status.
// Body is kept for logs only and must never reach API callers.
type ProviderError struct {
	Provider string
	Status   int
	Reason   string
	Body     string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: upstream status %d", e.Provider, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ProviderError) Unwrap() error       { return e.Err }
func (e *ProviderError) HTTPStatusCode() int { return e.Status }

func (e *ProviderError) Retryable() bool {
	return httpx.IsRetryableHTTPStatus(e.Status)
}

// TransportError is a failure to talk to the provider at all.
type TransportError struct {
	Provider string
	Timeout  bool
	Err      error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: request timed out: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRetryable reports whether a failed completion may be attempted again.
// Transport failures and 408/429/5xx are; other statuses and empty
// completions are not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, ErrEmptyCompletion) {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable()
	}
	var te *TransportError
	return errors.As(err, &te)
}

// transportError wraps an error that carried no upstream status.
func transportError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Provider: provider, Timeout: isTimeout(err), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
