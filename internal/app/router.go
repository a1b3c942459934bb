package app

import (
	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		RoadmapHandler:       handlerset.Roadmap,
		QuestionHandler:      handlerset.Question,
		SkillResourceHandler: handlerset.SkillResource,
		RoleHandler:          handlerset.Role,
		SkillHandler:         handlerset.Skill,
		GenerationLogHandler: handlerset.GenerationLog,
		AllowOrigins:         cfg.AllowOrigins,
	})
}
