package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type TopicKey struct {
	Language string
	Topic    string
}

type TopicRepo interface {
	// CreateIgnoreDuplicates inserts rows, skipping (language, topic) pairs
	// that already exist, and returns how many were inserted.
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.Topic) (int, error)
	ListByLanguage(ctx context.Context, tx *gorm.DB, language string) ([]*types.Topic, error)
	GetByKeys(ctx context.Context, tx *gorm.DB, keys []TopicKey) (map[TopicKey]*types.Topic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.Topic) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "language"}, {Name: "topic"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *topicRepo) ListByLanguage(ctx context.Context, tx *gorm.DB, language string) ([]*types.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Topic
	if err := t.WithContext(ctx).
		Where("language = ?", language).
		Order("topic_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) GetByKeys(ctx context.Context, tx *gorm.DB, keys []TopicKey) (map[TopicKey]*types.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := map[TopicKey]*types.Topic{}
	if len(keys) == 0 {
		return out, nil
	}
	langs := map[string]struct{}{}
	for _, k := range keys {
		langs[strings.TrimSpace(k.Language)] = struct{}{}
	}
	langList := make([]string, 0, len(langs))
	for l := range langs {
		langList = append(langList, l)
	}

	var rows []*types.Topic
	if err := t.WithContext(ctx).Where("language IN ?", langList).Find(&rows).Error; err != nil {
		return nil, err
	}
	want := map[TopicKey]struct{}{}
	for _, k := range keys {
		want[TopicKey{Language: strings.TrimSpace(k.Language), Topic: strings.TrimSpace(k.Topic)}] = struct{}{}
	}
	for _, row := range rows {
		k := TopicKey{Language: row.Language, Topic: row.Topic}
		if _, ok := want[k]; ok {
			out[k] = row
		}
	}
	return out, nil
}
