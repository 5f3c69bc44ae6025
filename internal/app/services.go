package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/config"
	"github.com/yungbote/studyplan-backend/internal/data/repos"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type Services struct {
	Plan      services.PlanService
	StudyPlan services.StudyPlanService
	Progress  services.ProgressService
	Quiz      services.QuizService
	Topic     services.TopicService
	CodeGame  services.CodeGameService
	Seed      services.SeedService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg *config.Config, reposet repos.Repos, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Plan:      services.NewPlanService(log, clients.LLM, cfg.Plans),
		StudyPlan: services.NewStudyPlanService(log, reposet.StudyPlan),
		Progress:  services.NewProgressService(log, reposet.StudyPlan, cfg.Plans.MaxProgressChars),
		Quiz:      services.NewQuizService(log, reposet.QuizQuestion),
		Topic:     services.NewTopicService(log, reposet.Topic),
		CodeGame:  services.NewCodeGameService(log, reposet.CodeGame),
		Seed:      wireSeed(db, log, reposet),
	}
}

func wireSeed(db *gorm.DB, log *logger.Logger, reposet repos.Repos) services.SeedService {
	return services.NewSeedService(db, log, reposet.Topic, reposet.QuizQuestion, reposet.CodeGame)
}
