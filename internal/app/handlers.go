package app

import (
	httpH "github.com/yungbote/studyplan-backend/internal/http/handlers"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Plan      *httpH.PlanHandler
	StudyPlan *httpH.StudyPlanHandler
	Catalog   *httpH.CatalogHandler
}

func wireHandlers(log *logger.Logger, svc Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Plan:      httpH.NewPlanHandler(httpH.PlanHandlerDeps{Plans: svc.Plan, Metrics: metrics}),
		StudyPlan: httpH.NewStudyPlanHandler(svc.StudyPlan, svc.Progress),
		Catalog:   httpH.NewCatalogHandler(svc.Quiz, svc.Topic, svc.CodeGame),
	}
}
