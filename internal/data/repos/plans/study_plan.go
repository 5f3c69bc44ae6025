package plans

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type StudyPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.StudyPlan) (*types.StudyPlan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.StudyPlan, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.StudyPlan, error)

	// UpdateProgress sets progress, and feedback when non-nil, on the plan
	// with the given id and returns the updated rows (none when absent).
	UpdateProgress(ctx context.Context, tx *gorm.DB, id string, progress datatypes.JSON, feedback *string) ([]*types.StudyPlan, error)
	UpdatePlanText(ctx context.Context, tx *gorm.DB, id string, plan string) (*types.StudyPlan, error)
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StudyPlan) (*types.StudyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if strings.TrimSpace(row.ID) == "" {
		row.ID = uuid.NewString()
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *studyPlanRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.StudyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var out []*types.StudyPlan
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *studyPlanRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.StudyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.StudyPlan
	if strings.TrimSpace(userID) == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studyPlanRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, id string, progress datatypes.JSON, feedback *string) ([]*types.StudyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []*types.StudyPlan{}
	if strings.TrimSpace(id) == "" {
		return out, nil
	}
	updates := map[string]interface{}{"progress": progress}
	if feedback != nil {
		updates["feedback"] = *feedback
	}
	res := t.WithContext(ctx).Model(&types.StudyPlan{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id = ?", id).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studyPlanRepo) UpdatePlanText(ctx context.Context, tx *gorm.DB, id string, plan string) (*types.StudyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Model(&types.StudyPlan{}).Where("id = ?", id).Update("plan", plan)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, t, id)
}
