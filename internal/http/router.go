package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studyplan-backend/internal/http/middleware"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	ServiceName     string
	CORSOrigins     []string
	MaxRequestBytes int64
	Metrics         *observability.Metrics
	MetricsPath     string

	HealthHandler    *httpH.HealthHandler
	PlanHandler      *httpH.PlanHandler
	StudyPlanHandler *httpH.StudyPlanHandler
	CatalogHandler   *httpH.CatalogHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestIDs())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck", cfg.MetricsPath))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// Plan generation/adaptation
	if cfg.PlanHandler != nil {
		r.POST("/generate-plan", cfg.PlanHandler.GeneratePlan)
		r.POST("/adapt-plan", cfg.PlanHandler.AdaptPlan)
	}

	api := r.Group("/api")

	// Stored plans + progress
	if cfg.StudyPlanHandler != nil {
		r.POST("/update-progress", cfg.StudyPlanHandler.UpdateProgress)
		api.POST("/plans", cfg.StudyPlanHandler.CreatePlan)
		api.GET("/plans", cfg.StudyPlanHandler.ListPlans)
		api.GET("/plans/:id", cfg.StudyPlanHandler.GetPlan)
		api.PUT("/plans/:id/plan", cfg.StudyPlanHandler.ReplacePlan)
	}

	// Quiz, topics, code games
	if cfg.CatalogHandler != nil {
		api.GET("/quiz-questions", cfg.CatalogHandler.ListQuizQuestions)
		api.GET("/topics", cfg.CatalogHandler.ListTopics)
		api.GET("/code-games", cfg.CatalogHandler.ListCodeGames)
	}

	return r
}
