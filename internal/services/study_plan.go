package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gorm.io/datatypes"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/modules/studyplan/format"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type CreatePlanInput struct {
	UserID    string
	Title     string
	Goal      string
	Days      int
	StartDate string
	Plan      string
	Progress  json.RawMessage
}

// StoredPlan is a persisted plan with its parsed days when the text parses.
type StoredPlan struct {
	Plan       *types.StudyPlan
	Days       []format.DayEntry
	ParseError string
}

type StudyPlanService interface {
	Create(ctx context.Context, in CreatePlanInput) (*types.StudyPlan, error)
	Get(ctx context.Context, id string) (*StoredPlan, error)
	ListByUser(ctx context.Context, userID string) ([]*types.StudyPlan, error)
	ReplacePlan(ctx context.Context, id string, plan string) (*types.StudyPlan, error)
}

type studyPlanService struct {
	log  *logger.Logger
	repo repos.StudyPlanRepo
}

func NewStudyPlanService(log *logger.Logger, repo repos.StudyPlanRepo) StudyPlanService {
	return &studyPlanService{log: log.With("service", "StudyPlanService"), repo: repo}
}

func (s *studyPlanService) Create(ctx context.Context, in CreatePlanInput) (*types.StudyPlan, error) {
	if strings.TrimSpace(in.Plan) == "" {
		return nil, apierr.New(http.StatusBadRequest, CodeMissingField, errors.New("plan is required"))
	}
	if in.Days < 0 {
		return nil, apierr.Newf(http.StatusBadRequest, CodeInvalidInput, "days must not be negative")
	}
	progress := datatypes.JSON([]byte("{}"))
	if types.ProgressPresent(in.Progress) {
		if !json.Valid(in.Progress) {
			return nil, apierr.Newf(http.StatusBadRequest, CodeInvalidInput, "progress must be valid JSON")
		}
		progress = datatypes.JSON(in.Progress)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSpace(in.Goal)
	}
	row := &types.StudyPlan{
		UserID:    strings.TrimSpace(in.UserID),
		Title:     title,
		Goal:      strings.TrimSpace(in.Goal),
		Days:      in.Days,
		StartDate: strings.TrimSpace(in.StartDate),
		Plan:      in.Plan,
		Progress:  progress,
	}
	created, err := s.repo.Create(ctx, nil, row)
	if err != nil {
		s.log.Error("Create study plan failed", "error", err)
		return nil, storeError(err)
	}
	return created, nil
}

func (s *studyPlanService) Get(ctx context.Context, id string) (*StoredPlan, error) {
	row, err := s.repo.GetByID(ctx, nil, strings.TrimSpace(id))
	if err != nil {
		return nil, storeError(err)
	}
	if row == nil {
		return nil, apierr.New(http.StatusNotFound, CodeNotFound, errors.New("plan not found"))
	}
	out := &StoredPlan{Plan: row}
	parsed, perr := format.Parse(row.Plan)
	if perr != nil {
		out.ParseError = perr.Error()
	} else {
		out.Days = parsed.Days
	}
	return out, nil
}

// ListByUser returns the user's plans, newest first.
func (s *studyPlanService) ListByUser(ctx context.Context, userID string) ([]*types.StudyPlan, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apierr.New(http.StatusBadRequest, CodeMissingField, errors.New("user_id is required"))
	}
	rows, err := s.repo.ListByUserID(ctx, nil, userID)
	if err != nil {
		s.log.Error("List study plans failed", "user_id", userID, "error", err)
		return nil, storeError(err)
	}
	if rows == nil {
		rows = []*types.StudyPlan{}
	}
	return rows, nil
}

func (s *studyPlanService) ReplacePlan(ctx context.Context, id string, plan string) (*types.StudyPlan, error) {
	if strings.TrimSpace(plan) == "" {
		return nil, apierr.New(http.StatusBadRequest, CodeMissingField, errors.New("plan is required"))
	}
	row, err := s.repo.UpdatePlanText(ctx, nil, strings.TrimSpace(id), plan)
	if err != nil {
		return nil, storeError(err)
	}
	if row == nil {
		return nil, apierr.New(http.StatusNotFound, CodeNotFound, errors.New("plan not found"))
	}
	return row, nil
}
