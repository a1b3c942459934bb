package app

import (
	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/repos"
)

type Repos struct {
	Roadmap           repos.RoadmapRepo
	InterviewQuestion repos.InterviewQuestionRepo
	SkillResource     repos.SkillResourceRepo
	Role              repos.RoleRepo
	Skill             repos.SkillRepo
	GenerationLog     repos.GenerationLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Roadmap:           repos.NewRoadmapRepo(db, log),
		InterviewQuestion: repos.NewInterviewQuestionRepo(db, log),
		SkillResource:     repos.NewSkillResourceRepo(db, log),
		Role:              repos.NewRoleRepo(db, log),
		Skill:             repos.NewSkillRepo(db, log),
		GenerationLog:     repos.NewGenerationLogRepo(db, log),
	}
}
