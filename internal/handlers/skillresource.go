package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/services"
)

type SkillResourceHandler struct {
	log             *logger.Logger
	resourceService services.SkillResourceService
}

func NewSkillResourceHandler(log *logger.Logger, resourceService services.SkillResourceService) *SkillResourceHandler {
	return &SkillResourceHandler{
		log:             log.With("handler", "SkillResourceHandler"),
		resourceService: resourceService,
	}
}

func (h *SkillResourceHandler) Generate(c *gin.Context) {
	var req services.SkillResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	bundle, err := h.resourceService.GetOrGenerateSkillResources(c.Request.Context(), nil, req)
	if err != nil {
		h.log.Error("Generate skill resources failed", "skill", req.SkillName, "error", err.Error())
		RespondError(c, statusForError(err), "resource_generation_failed", err)
		return
	}
	RespondOK(c, bundle)
}

func (h *SkillResourceHandler) GetByID(c *gin.Context) {
	bundle, err := h.resourceService.GetSkillResourcesByID(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		RespondError(c, statusForError(err), "resource_lookup_failed", err)
		return
	}
	RespondOK(c, bundle)
}

func (h *SkillResourceHandler) Refresh(c *gin.Context) {
	id := c.Param("id")
	bundle, err := h.resourceService.RefreshSkillResources(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("Refresh skill resources failed", "id", id, "error", err.Error())
		RespondError(c, statusForError(err), "resource_refresh_failed", err)
		return
	}
	RespondOK(c, bundle)
}

func (h *SkillResourceHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.resourceService.DeleteSkillResources(c.Request.Context(), nil, id); err != nil {
		RespondError(c, statusForError(err), "resource_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
