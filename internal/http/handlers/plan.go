package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type PlanHandler struct {
	plans   services.PlanService
	metrics *observability.Metrics
}

type PlanHandlerDeps struct {
	Plans   services.PlanService
	Metrics *observability.Metrics
}

func NewPlanHandler(deps PlanHandlerDeps) *PlanHandler {
	return &PlanHandler{plans: deps.Plans, metrics: deps.Metrics}
}

type generatePlanRequest struct {
	Goal      string  `json:"goal"`
	Duration  flexInt `json:"duration"`
	StartDate string  `json:"startDate"`
}

// POST /generate-plan
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req generatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Duration.Set && req.Duration.Value < 1 {
		response.RespondError(c, http.StatusBadRequest, services.CodeInvalidInput, errors.New("duration must be a positive number of days"))
		return
	}
	res, err := h.plans.Generate(c.Request.Context(), services.GenerateInput{
		Goal:      req.Goal,
		Duration:  req.Duration.Value,
		StartDate: req.StartDate,
	})
	h.record("generate", err)
	if err != nil {
		response.RespondServiceError(c, err, services.CodeProviderError)
		return
	}
	response.RespondOK(c, gin.H{
		"plan":           res.Plan,
		"days":           res.Days,
		"format_version": res.FormatVersion,
		"prompt_version": res.PromptVersion,
	})
}

type adaptPlanRequest struct {
	Plan      string          `json:"plan"`
	Progress  json.RawMessage `json:"progress"`
	Feedback  *string         `json:"feedback"`
	Goal      string          `json:"goal"`
	Days      flexInt         `json:"days"`
	StartDate string          `json:"start_date"`
}

// POST /adapt-plan
func (h *PlanHandler) AdaptPlan(c *gin.Context) {
	var req adaptPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	in := services.AdaptInput{
		Plan:      req.Plan,
		Progress:  req.Progress,
		Goal:      req.Goal,
		Days:      req.Days.Value,
		StartDate: req.StartDate,
	}
	if req.Feedback != nil {
		in.Feedback = *req.Feedback
	}
	res, err := h.plans.Adapt(c.Request.Context(), in)
	h.record("adapt", err)
	if err != nil {
		response.RespondServiceError(c, err, services.CodeProviderError)
		return
	}
	violations := res.Violations
	if violations == nil {
		violations = []services.Violation{}
	}
	response.RespondOK(c, gin.H{
		"adapted_plan":   res.Plan,
		"days":           res.Days,
		"violations":     violations,
		"format_version": res.FormatVersion,
		"prompt_version": res.PromptVersion,
	})
}

func (h *PlanHandler) record(op string, err error) {
	if h.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		if ae, ok := apierr.As(err); ok && ae.Code != "" {
			result = ae.Code
		}
	}
	h.metrics.IncPlanResult(op, result)
}
