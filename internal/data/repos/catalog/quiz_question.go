package catalog

import (
	"context"

	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// QuizFilter fields are optional; empty fields do not filter.
type QuizFilter struct {
	Language string
	Topic    string
}

type QuizQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error)
	List(ctx context.Context, tx *gorm.DB, f QuizFilter) ([]*types.QuizQuestion, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.QuizQuestion{}, nil
	}
	if err := t.WithContext(ctx).Omit("Topic").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizQuestionRepo) List(ctx context.Context, tx *gorm.DB, f QuizFilter) ([]*types.QuizQuestion, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Model(&types.QuizQuestion{}).
		Joins("JOIN topics ON topics.id = quiz_questions.topic_id").
		Preload("Topic")
	if f.Language != "" {
		q = q.Where("topics.language = ?", f.Language)
	}
	if f.Topic != "" {
		q = q.Where("topics.topic = ?", f.Topic)
	}
	var out []*types.QuizQuestion
	if err := q.Order("quiz_questions.id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
