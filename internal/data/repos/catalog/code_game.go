package catalog

import (
	"context"

	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type CodeGameFilter struct {
	Language   string
	Topic      string
	Difficulty string
}

type CodeGameRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CodeGame) ([]*types.CodeGame, error)
	List(ctx context.Context, tx *gorm.DB, f CodeGameFilter) ([]*types.CodeGame, error)
}

type codeGameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCodeGameRepo(db *gorm.DB, baseLog *logger.Logger) CodeGameRepo {
	return &codeGameRepo{db: db, log: baseLog.With("repo", "CodeGameRepo")}
}

func (r *codeGameRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CodeGame) ([]*types.CodeGame, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.CodeGame{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *codeGameRepo) List(ctx context.Context, tx *gorm.DB, f CodeGameFilter) ([]*types.CodeGame, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&types.CodeGame{})
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Topic != "" {
		q = q.Where("topic = ?", f.Topic)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	var out []*types.CodeGame
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
