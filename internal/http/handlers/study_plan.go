package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type StudyPlanHandler struct {
	plans    services.StudyPlanService
	progress services.ProgressService
}

func NewStudyPlanHandler(plans services.StudyPlanService, progress services.ProgressService) *StudyPlanHandler {
	return &StudyPlanHandler{plans: plans, progress: progress}
}

type updateProgressRequest struct {
	PlanID   flexID          `json:"plan_id"`
	Progress json.RawMessage `json:"progress"`
	Feedback *string         `json:"feedback"`
}

// POST /update-progress
func (h *StudyPlanHandler) UpdateProgress(c *gin.Context) {
	var req updateProgressRequest
	if !bindJSON(c, &req) {
		return
	}
	rows, err := h.progress.Update(c.Request.Context(), string(req.PlanID), req.Progress, req.Feedback)
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "data": rows})
}

type createPlanRequest struct {
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Goal      string          `json:"goal"`
	Days      flexInt         `json:"days"`
	StartDate string          `json:"start_date"`
	Plan      string          `json:"plan"`
	Progress  json.RawMessage `json:"progress"`
}

// POST /api/plans
func (h *StudyPlanHandler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.plans.Create(c.Request.Context(), services.CreatePlanInput{
		UserID:    req.UserID,
		Title:     req.Title,
		Goal:      req.Goal,
		Days:      req.Days.Value,
		StartDate: req.StartDate,
		Plan:      req.Plan,
		Progress:  req.Progress,
	})
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	response.RespondOK(c, gin.H{"plan": row})
}

// GET /api/plans?user_id=
func (h *StudyPlanHandler) ListPlans(c *gin.Context) {
	rows, err := h.plans.ListByUser(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	response.RespondOK(c, gin.H{"plans": rows})
}

// GET /api/plans/:id
func (h *StudyPlanHandler) GetPlan(c *gin.Context) {
	stored, err := h.plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	out := gin.H{"plan": stored.Plan}
	if stored.ParseError != "" {
		out["parse_error"] = stored.ParseError
	} else {
		out["days"] = stored.Days
	}
	response.RespondOK(c, out)
}

type replacePlanRequest struct {
	Plan string `json:"plan"`
}

// PUT /api/plans/:id/plan
func (h *StudyPlanHandler) ReplacePlan(c *gin.Context) {
	var req replacePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.plans.ReplacePlan(c.Request.Context(), c.Param("id"), req.Plan)
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	response.RespondOK(c, gin.H{"plan": row})
}
