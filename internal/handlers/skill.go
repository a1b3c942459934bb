package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/services"
	"github.com/pathprep/pathprep-backend/internal/types"
)

type SkillHandler struct {
	skillService services.SkillService
}

func NewSkillHandler(skillService services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

type createSkillRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category,omitempty"`
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req createSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	skill, err := h.skillService.CreateSkill(c.Request.Context(), nil, &types.Skill{
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		RespondError(c, statusForError(err), "skill_create_failed", err)
		return
	}
	RespondOK(c, skill)
}

func (h *SkillHandler) Get(c *gin.Context) {
	skill, err := h.skillService.GetSkill(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		RespondError(c, statusForError(err), "skill_lookup_failed", err)
		return
	}
	RespondOK(c, skill)
}

func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skillService.ListSkills(c.Request.Context(), nil, c.Query("category"))
	if err != nil {
		RespondError(c, statusForError(err), "skill_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"skills": skills})
}

func (h *SkillHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.skillService.DeleteSkill(c.Request.Context(), nil, id); err != nil {
		RespondError(c, statusForError(err), "skill_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
