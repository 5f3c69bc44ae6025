package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/yungbote/studyplan-backend/internal/clients/llm"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/prompts"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
)

const (
	CodeInvalidInput        = "invalid_input"
	CodeMissingField        = "missing_field"
	CodeInputTooLarge       = "input_too_large"
	CodeProviderError       = "provider_error"
	CodeProviderTimeout     = "provider_timeout"
	CodeProviderUnreachable = "provider_unreachable"
	CodeEmptyCompletion     = "empty_completion"
	CodePlanMalformed       = "plan_malformed"
	CodeCompletedDayChanged = "completed_day_changed"
	CodeStoreError          = "store_error"
	CodeNotFound            = "not_found"
)

// inputError maps prompt validation failures to 400s.
func inputError(err error) error {
	var mf *prompts.MissingFieldError
	if errors.As(err, &mf) {
		return apierr.New(http.StatusBadRequest, CodeMissingField, err)
	}
	var le *prompts.LimitError
	if errors.As(err, &le) {
		return apierr.New(http.StatusBadRequest, CodeInputTooLarge, err)
	}
	return apierr.New(http.StatusBadRequest, CodeInvalidInput, err)
}

// completionError maps a failed completion to an API error carrying only
// the generic message; upstream bodies stay in the logs.
func completionError(err error, generic string) error {
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		status := pe.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return apierr.New(status, CodeProviderError, errors.New(generic))
	}
	var te *llm.TransportError
	if errors.As(err, &te) {
		if te.Timeout {
			return apierr.Newf(http.StatusGatewayTimeout, CodeProviderTimeout, "%s: provider timed out", generic)
		}
		return apierr.Newf(http.StatusBadGateway, CodeProviderUnreachable, "%s: provider unreachable", generic)
	}
	if errors.Is(err, llm.ErrEmptyCompletion) {
		return apierr.Newf(http.StatusBadGateway, CodeEmptyCompletion, "%s: provider returned no completion", generic)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.Newf(http.StatusGatewayTimeout, CodeProviderTimeout, "%s: provider timed out", generic)
	}
	return apierr.New(http.StatusBadGateway, CodeProviderError, errors.New(generic))
}

func storeError(err error) error {
	return apierr.New(http.StatusInternalServerError, CodeStoreError, err)
}
