package app

import (
	"github.com/pathprep/pathprep-backend/internal/handlers"
	"github.com/pathprep/pathprep-backend/internal/logger"
)

type Handlers struct {
	Roadmap       *handlers.RoadmapHandler
	Question      *handlers.QuestionHandler
	SkillResource *handlers.SkillResourceHandler
	Role          *handlers.RoleHandler
	Skill         *handlers.SkillHandler
	GenerationLog *handlers.GenerationLogHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, reposet Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Roadmap:       handlers.NewRoadmapHandler(log, serviceset.Roadmap),
		Question:      handlers.NewQuestionHandler(log, serviceset.Question),
		SkillResource: handlers.NewSkillResourceHandler(log, serviceset.SkillResource),
		Role:          handlers.NewRoleHandler(serviceset.Role),
		Skill:         handlers.NewSkillHandler(serviceset.Skill),
		GenerationLog: handlers.NewGenerationLogHandler(reposet.GenerationLog),
	}
}
