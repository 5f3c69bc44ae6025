package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"gorm.io/datatypes"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type ProgressService interface {
	// Update stores progress, and feedback when non-nil, on a plan and
	// returns the updated rows.
	Update(ctx context.Context, planID string, progress json.RawMessage, feedback *string) ([]*types.StudyPlan, error)
}

type progressService struct {
	log         *logger.Logger
	repo        repos.StudyPlanRepo
	maxProgress int
}

func NewProgressService(log *logger.Logger, repo repos.StudyPlanRepo, maxProgressChars int) ProgressService {
	return &progressService{
		log:         log.With("service", "ProgressService"),
		repo:        repo,
		maxProgress: maxProgressChars,
	}
}

func (s *progressService) Update(ctx context.Context, planID string, progress json.RawMessage, feedback *string) ([]*types.StudyPlan, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" || !types.ProgressPresent(progress) {
		return nil, apierr.New(http.StatusBadRequest, CodeMissingField, errors.New("Missing plan_id or progress"))
	}
	if !json.Valid(progress) {
		return nil, apierr.Newf(http.StatusBadRequest, CodeInvalidInput, "progress must be valid JSON")
	}
	if s.maxProgress > 0 {
		if n := utf8.RuneCount(progress); n > s.maxProgress {
			return nil, apierr.Newf(http.StatusBadRequest, CodeInputTooLarge, "progress is too large (%d characters, max %d)", n, s.maxProgress)
		}
	}

	rows, err := s.repo.UpdateProgress(ctx, nil, planID, datatypes.JSON(progress), feedback)
	if err != nil {
		s.log.Error("Update progress failed", "plan_id", planID, "error", err)
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, apierr.New(http.StatusNotFound, CodeNotFound, errors.New("Plan not found or not updated"))
	}
	return rows, nil
}
