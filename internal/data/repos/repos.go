package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos/catalog"
	"github.com/yungbote/studyplan-backend/internal/data/repos/plans"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type StudyPlanRepo = plans.StudyPlanRepo

type TopicRepo = catalog.TopicRepo
type QuizQuestionRepo = catalog.QuizQuestionRepo
type CodeGameRepo = catalog.CodeGameRepo

type Repos struct {
	StudyPlan    StudyPlanRepo
	Topic        TopicRepo
	QuizQuestion QuizQuestionRepo
	CodeGame     CodeGameRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		StudyPlan:    plans.NewStudyPlanRepo(db, log),
		Topic:        catalog.NewTopicRepo(db, log),
		QuizQuestion: catalog.NewQuizQuestionRepo(db, log),
		CodeGame:     catalog.NewCodeGameRepo(db, log),
	}
}
