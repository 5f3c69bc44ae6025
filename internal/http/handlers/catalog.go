package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type CatalogHandler struct {
	quizzes services.QuizService
	topics  services.TopicService
	games   services.CodeGameService
}

func NewCatalogHandler(quizzes services.QuizService, topics services.TopicService, games services.CodeGameService) *CatalogHandler {
	return &CatalogHandler{quizzes: quizzes, topics: topics, games: games}
}

// GET /api/quiz-questions?language=&topic=
func (h *CatalogHandler) ListQuizQuestions(c *gin.Context) {
	rows, err := h.quizzes.List(c.Request.Context(), c.Query("language"), c.Query("topic"))
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	if rows == nil {
		rows = []*types.QuizQuestion{}
	}
	response.RespondOK(c, rows)
}

type topicView struct {
	Topic      string `json:"topic"`
	TopicOrder int    `json:"topic_order"`
}

// GET /api/topics?language=
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	rows, err := h.topics.ListByLanguage(c.Request.Context(), c.Query("language"))
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	out := make([]topicView, 0, len(rows))
	for _, t := range rows {
		out = append(out, topicView{Topic: t.Topic, TopicOrder: t.TopicOrder})
	}
	response.RespondOK(c, gin.H{"topics": out})
}

// GET /api/code-games?language=&topic=&difficulty=
func (h *CatalogHandler) ListCodeGames(c *gin.Context) {
	rows, err := h.games.Sample(c.Request.Context(), c.Query("language"), c.Query("topic"), c.Query("difficulty"))
	if err != nil {
		response.RespondServiceError(c, err, services.CodeStoreError)
		return
	}
	response.RespondOK(c, rows)
}
