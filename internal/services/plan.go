package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/clients/llm"
	"github.com/yungbote/studyplan-backend/internal/config"
	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/prompts"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const (
	planAttempts = 2

	msgGenerateFailed = "failed to generate plan"
	msgAdaptFailed    = "failed to adapt plan"
)

type GenerateInput struct {
	Goal      string
	Duration  int
	StartDate string
}

type AdaptInput struct {
	Plan      string
	Progress  json.RawMessage
	Feedback  string
	Goal      string
	Days      int
	StartDate string
}

// Violation is a day marked complete whose content did not survive adaptation.
type Violation struct {
	Day    int    `json:"day"`
	Reason string `json:"reason"`
}

const (
	ViolationMissing = "missing"
	ViolationChanged = "changed"
)

type PlanResult struct {
	Plan          string
	Days          []format.DayEntry
	FormatVersion string
	PromptVersion int
	Attempts      int
	Violations    []Violation
}

type PlanService interface {
	Generate(ctx context.Context, in GenerateInput) (*PlanResult, error)
	Adapt(ctx context.Context, in AdaptInput) (*PlanResult, error)
}

type planService struct {
	log    *logger.Logger
	client llm.Client
	cfg    config.PlansConfig
}

func NewPlanService(log *logger.Logger, client llm.Client, cfg config.PlansConfig) PlanService {
	return &planService{
		log:    log.With("service", "PlanService"),
		client: client,
		cfg:    cfg,
	}
}

func (s *planService) limits() prompts.Limits {
	return prompts.Limits{
		Goal:     s.cfg.MaxGoalChars,
		Plan:     s.cfg.MaxPlanChars,
		Progress: s.cfg.MaxProgressChars,
		Feedback: s.cfg.MaxFeedbackChars,
	}
}

func (s *planService) Generate(ctx context.Context, in GenerateInput) (*PlanResult, error) {
	duration := in.Duration
	if duration == 0 {
		duration = s.cfg.DefaultDuration
	}
	if duration < 1 {
		return nil, apierr.Newf(http.StatusBadRequest, CodeInvalidInput, "duration must be a positive number of days")
	}
	if s.cfg.MaxDuration > 0 && duration > s.cfg.MaxDuration {
		return nil, apierr.Newf(http.StatusBadRequest, CodeInputTooLarge, "duration must be at most %d days", s.cfg.MaxDuration)
	}

	prompt, err := prompts.Generation(prompts.Input{
		Goal:      in.Goal,
		Days:      duration,
		StartDate: in.StartDate,
	}, s.limits())
	if err != nil {
		return nil, inputError(err)
	}

	log := s.log.With("op", "generate", "request_id", ctxutil.RequestID(ctx), "model", s.client.Model())

	callCtx := llm.WithCacheCheck(ctx, func(out string) bool {
		if !s.cfg.ValidateOutput {
			return true
		}
		_, err := format.Parse(out)
		return err == nil
	})

	version := prompts.Version(prompts.PromptGeneratePlan)
	var lastFormatErr error
	for attempt := 1; attempt <= planAttempts; attempt++ {
		raw, err := s.client.Complete(attemptCtx(callCtx, attempt), prompt)
		if err != nil {
			log.Error("Plan generation failed", "attempt", attempt, "error", err)
			return nil, completionError(err, msgGenerateFailed)
		}

		plan, perr := format.Parse(raw)
		if perr != nil && s.cfg.ValidateOutput {
			lastFormatErr = perr
			log.Warn("Generated plan violates format", "attempt", attempt, "error", perr)
			continue
		}

		res := &PlanResult{Plan: raw, FormatVersion: format.Version, PromptVersion: version, Attempts: attempt}
		if plan != nil {
			res.Days = plan.Days
			if plan.Len() != duration {
				log.Warn("Generated plan length differs from requested duration", "requested", duration, "got", plan.Len())
			}
		}
		return res, nil
	}
	return nil, apierr.New(http.StatusBadGateway, CodePlanMalformed, fmt.Errorf("%s: provider output did not follow the plan format: %w", msgGenerateFailed, lastFormatErr))
}

func (s *planService) Adapt(ctx context.Context, in AdaptInput) (*PlanResult, error) {
	if strings.TrimSpace(in.Plan) == "" {
		return nil, apierr.New(http.StatusBadRequest, CodeMissingField, errors.New("plan is required"))
	}
	if !types.ProgressPresent(in.Progress) {
		return nil, apierr.New(http.StatusBadRequest, CodeMissingField, errors.New("progress is required"))
	}
	if in.Days < 0 {
		return nil, apierr.Newf(http.StatusBadRequest, CodeInvalidInput, "days must not be negative")
	}

	prompt, err := prompts.Adaptation(prompts.Input{
		Goal:         in.Goal,
		Days:         in.Days,
		StartDate:    in.StartDate,
		Plan:         in.Plan,
		ProgressJSON: compactJSON(in.Progress),
		Feedback:     in.Feedback,
	}, s.limits())
	if err != nil {
		return nil, inputError(err)
	}

	log := s.log.With("op", "adapt", "request_id", ctxutil.RequestID(ctx), "model", s.client.Model())

	var completed []int
	prev, perr := format.Parse(in.Plan)
	if perr != nil {
		log.Warn("Previous plan does not parse; skipping completed-day checks", "error", perr)
		prev = nil
	} else {
		completed = types.CompletedDays(types.DayStatuses(in.Progress, taskLines(prev)))
	}

	callCtx := llm.WithCacheCheck(ctx, func(out string) bool {
		next, err := format.Parse(out)
		if err != nil {
			return !s.cfg.ValidateOutput
		}
		return len(checkCompleted(prev, next, completed)) == 0
	})

	version := prompts.Version(prompts.PromptAdaptPlan)
	var (
		lastFormatErr  error
		lastViolations []Violation
		lastResult     *PlanResult
	)
	for attempt := 1; attempt <= planAttempts; attempt++ {
		raw, err := s.client.Complete(attemptCtx(callCtx, attempt), prompt)
		if err != nil {
			log.Error("Plan adaptation failed", "attempt", attempt, "error", err)
			return nil, completionError(err, msgAdaptFailed)
		}

		next, nerr := format.Parse(raw)
		if nerr != nil {
			if s.cfg.ValidateOutput {
				lastFormatErr = nerr
				lastResult = nil
				log.Warn("Adapted plan violates format", "attempt", attempt, "error", nerr)
				continue
			}
			// Unvalidated output cannot be compared day by day.
			return &PlanResult{Plan: raw, FormatVersion: format.Version, PromptVersion: version, Attempts: attempt}, nil
		}

		res := &PlanResult{Plan: raw, Days: next.Days, FormatVersion: format.Version, PromptVersion: version, Attempts: attempt}
		violations := checkCompleted(prev, next, completed)
		if len(violations) == 0 {
			if in.Days > 0 && next.Len() != in.Days {
				log.Warn("Adapted plan length differs from requested days", "requested", in.Days, "got", next.Len())
			}
			return res, nil
		}
		log.Warn("Adapted plan changed completed days", "attempt", attempt, "violations", violations)
		res.Violations = violations
		lastViolations = violations
		lastResult = res
		lastFormatErr = nil
	}

	if lastResult == nil {
		return nil, apierr.New(http.StatusBadGateway, CodePlanMalformed, fmt.Errorf("%s: provider output did not follow the plan format: %w", msgAdaptFailed, lastFormatErr))
	}
	if s.cfg.StrictPreservation {
		return nil, apierr.New(http.StatusBadGateway, CodeCompletedDayChanged, fmt.Errorf("%s: completed days were not preserved: %s", msgAdaptFailed, describeViolations(lastViolations)))
	}
	return lastResult, nil
}

// attemptCtx sends retries past the completion cache.
func attemptCtx(ctx context.Context, attempt int) context.Context {
	if attempt > 1 {
		return llm.WithCacheBypass(ctx)
	}
	return ctx
}

// checkCompleted compares every completed day of prev with the same day of next.
func checkCompleted(prev, next *format.Plan, completed []int) []Violation {
	if prev == nil || len(completed) == 0 {
		return nil
	}
	var out []Violation
	for _, day := range completed {
		was, ok := prev.Day(day)
		if !ok {
			continue
		}
		now, ok := next.Day(day)
		if !ok {
			out = append(out, Violation{Day: day, Reason: ViolationMissing})
			continue
		}
		if !format.Preserved(was, now) {
			out = append(out, Violation{Day: day, Reason: ViolationChanged})
		}
	}
	return out
}

func taskLines(p *format.Plan) map[int][]string {
	out := make(map[int][]string, p.Len())
	for _, d := range p.Days {
		out[d.Day] = d.BodyLines()
	}
	return out
}

func describeViolations(vs []Violation) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, fmt.Sprintf("day %d %s", v.Day, v.Reason))
	}
	return strings.Join(parts, ", ")
}

func compactJSON(raw json.RawMessage) string {
	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return b.String()
}
