package app

import (
	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/modules/generation"
	"github.com/pathprep/pathprep-backend/internal/services"
)

type Services struct {
	Roadmap       services.RoadmapService
	Question      services.QuestionService
	SkillResource services.SkillResourceService
	Role          services.RoleService
	Skill         services.SkillService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	mapper := generation.NewMapper(log)
	return Services{
		Roadmap: services.NewRoadmapService(db, log, reposet.Roadmap, reposet.GenerationLog,
			clients.Model, mapper, clients.Cache, cfg.StalenessWindow),
		Question: services.NewQuestionService(db, log, reposet.InterviewQuestion, reposet.GenerationLog,
			clients.Model, mapper),
		SkillResource: services.NewSkillResourceService(db, log, reposet.SkillResource, reposet.GenerationLog,
			clients.Model, mapper, clients.Cache, cfg.StalenessWindow),
		Role:  services.NewRoleService(db, log, reposet.Role),
		Skill: services.NewSkillService(db, log, reposet.Skill),
	}
}
