package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/handlers"
)

type RouterConfig struct {
	RoadmapHandler       *handlers.RoadmapHandler
	QuestionHandler      *handlers.QuestionHandler
	SkillResourceHandler *handlers.SkillResourceHandler
	RoleHandler          *handlers.RoleHandler
	SkillHandler         *handlers.SkillHandler
	GenerationLogHandler *handlers.GenerationLogHandler
	AllowOrigins         []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Roadmaps
		api.POST("/roadmaps/generate", cfg.RoadmapHandler.Generate)
		api.GET("/roadmaps/key/:compositeKey", cfg.RoadmapHandler.GetByCompositeKey)
		api.DELETE("/roadmaps/:id", cfg.RoadmapHandler.Delete)

		// Interview questions
		api.POST("/questions/generate", cfg.QuestionHandler.Generate)
		api.POST("/questions/skill", cfg.QuestionHandler.GenerateForSkill)
		api.DELETE("/questions/:id", cfg.QuestionHandler.Delete)

		// Skill resources
		api.POST("/skill-resources/generate", cfg.SkillResourceHandler.Generate)
		api.GET("/skill-resources/:id", cfg.SkillResourceHandler.GetByID)
		api.POST("/skill-resources/:id/refresh", cfg.SkillResourceHandler.Refresh)
		api.DELETE("/skill-resources/:id", cfg.SkillResourceHandler.Delete)

		// Roles
		api.POST("/roles", cfg.RoleHandler.Create)
		api.GET("/roles", cfg.RoleHandler.List)
		api.GET("/roles/:id", cfg.RoleHandler.Get)
		api.DELETE("/roles/:id", cfg.RoleHandler.Delete)

		// Skills
		api.POST("/skills", cfg.SkillHandler.Create)
		api.GET("/skills", cfg.SkillHandler.List)
		api.GET("/skills/:id", cfg.SkillHandler.Get)
		api.DELETE("/skills/:id", cfg.SkillHandler.Delete)

		// Audit
		api.GET("/generation-logs", cfg.GenerationLogHandler.ListRecent)
	}

	return router
}
