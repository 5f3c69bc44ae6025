package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/data/repos/catalog"
	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

const maxCodeGames = 10

type QuizService interface {
	List(ctx context.Context, language, topic string) ([]*types.QuizQuestion, error)
}

type TopicService interface {
	ListByLanguage(ctx context.Context, language string) ([]*types.Topic, error)
}

type CodeGameService interface {
	// Sample returns up to ten matching games in random order.
	Sample(ctx context.Context, language, topic, difficulty string) ([]*types.CodeGame, error)
}

type quizService struct {
	log  *logger.Logger
	repo repos.QuizQuestionRepo
}

func NewQuizService(log *logger.Logger, repo repos.QuizQuestionRepo) QuizService {
	return &quizService{log: log.With("service", "QuizService"), repo: repo}
}

func (s *quizService) List(ctx context.Context, language, topic string) ([]*types.QuizQuestion, error) {
	rows, err := s.repo.List(ctx, nil, catalog.QuizFilter{
		Language: strings.TrimSpace(language),
		Topic:    strings.TrimSpace(topic),
	})
	if err != nil {
		s.log.Error("List quiz questions failed", "error", err)
		return nil, storeError(err)
	}
	return rows, nil
}

type topicService struct {
	log  *logger.Logger
	repo repos.TopicRepo
}

func NewTopicService(log *logger.Logger, repo repos.TopicRepo) TopicService {
	return &topicService{log: log.With("service", "TopicService"), repo: repo}
}

func (s *topicService) ListByLanguage(ctx context.Context, language string) ([]*types.Topic, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil, apierr.New(http.StatusBadRequest, CodeMissingField, errors.New("Missing language parameter"))
	}
	rows, err := s.repo.ListByLanguage(ctx, nil, language)
	if err != nil {
		s.log.Error("List topics failed", "language", language, "error", err)
		return nil, storeError(err)
	}
	return rows, nil
}

type codeGameService struct {
	log     *logger.Logger
	repo    repos.CodeGameRepo
	shuffle func(n int, swap func(i, j int))
}

func NewCodeGameService(log *logger.Logger, repo repos.CodeGameRepo) CodeGameService {
	return &codeGameService{
		log:     log.With("service", "CodeGameService"),
		repo:    repo,
		shuffle: rand.Shuffle,
	}
}

func (s *codeGameService) Sample(ctx context.Context, language, topic, difficulty string) ([]*types.CodeGame, error) {
	rows, err := s.repo.List(ctx, nil, catalog.CodeGameFilter{
		Language:   strings.TrimSpace(language),
		Topic:      strings.TrimSpace(topic),
		Difficulty: strings.TrimSpace(difficulty),
	})
	if err != nil {
		s.log.Error("List code games failed", "error", err)
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, apierr.New(http.StatusNotFound, CodeNotFound, errors.New("No code games found"))
	}
	s.shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	if len(rows) > maxCodeGames {
		rows = rows[:maxCodeGames]
	}
	return rows, nil
}
