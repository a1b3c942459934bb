package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/services"
)

type RoadmapHandler struct {
	log            *logger.Logger
	roadmapService services.RoadmapService
}

func NewRoadmapHandler(log *logger.Logger, roadmapService services.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{
		log:            log.With("handler", "RoadmapHandler"),
		roadmapService: roadmapService,
	}
}

func (h *RoadmapHandler) Generate(c *gin.Context) {
	var req services.RoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	roadmap, err := h.roadmapService.GenerateOrGetRoadmap(c.Request.Context(), nil, req)
	if err != nil {
		h.log.Error("Generate roadmap failed", "composite_key", req.CompositeKey(), "error", err.Error())
		RespondError(c, statusForError(err), "roadmap_generation_failed", err)
		return
	}
	RespondOK(c, roadmap)
}

func (h *RoadmapHandler) GetByCompositeKey(c *gin.Context) {
	key := c.Param("compositeKey")
	roadmap, err := h.roadmapService.GetRoadmapByCompositeKey(c.Request.Context(), nil, key)
	if err != nil {
		RespondError(c, statusForError(err), "roadmap_lookup_failed", err)
		return
	}
	RespondOK(c, roadmap)
}

func (h *RoadmapHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.roadmapService.DeleteRoadmap(c.Request.Context(), nil, id); err != nil {
		RespondError(c, statusForError(err), "roadmap_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
