package testutil

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain/study"
)

func SeedStudyPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, id string, plan string) *types.StudyPlan {
	tb.Helper()
	p := &types.StudyPlan{
		ID:        id,
		UserID:    "user-1",
		Title:     "plan",
		Goal:      "learn go",
		Days:      3,
		StartDate: "today",
		Plan:      plan,
		Progress:  datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed study plan: %v", err)
	}
	return p
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, language, topic string, order int) *types.Topic {
	tb.Helper()
	t := &types.Topic{Language: language, Topic: topic, TopicOrder: order}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedQuizQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uint, question string) *types.QuizQuestion {
	tb.Helper()
	q := &types.QuizQuestion{
		TopicID:     topicID,
		Question:    question,
		Options:     datatypes.JSON([]byte(`["a","b","c","d"]`)),
		Answer:      "a",
		Explanation: "because",
	}
	if err := tx.WithContext(ctx).Omit("Topic").Create(q).Error; err != nil {
		tb.Fatalf("seed quiz question: %v", err)
	}
	return q
}

func SeedCodeGame(tb testing.TB, ctx context.Context, tx *gorm.DB, language, topic, difficulty string) *types.CodeGame {
	tb.Helper()
	g := &types.CodeGame{
		Language:    language,
		Topic:       topic,
		Difficulty:  difficulty,
		Type:        "output",
		Prompt:      "What is the output of this code?",
		CodeSnippet: "print(1)",
		Answer:      "1",
		Explanation: "prints 1",
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed code game: %v", err)
	}
	return g
}
