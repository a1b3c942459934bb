package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/repos"
)

// GenerationLogHandler exposes the model-call audit trail.
type GenerationLogHandler struct {
	genLogRepo repos.GenerationLogRepo
}

func NewGenerationLogHandler(genLogRepo repos.GenerationLogRepo) *GenerationLogHandler {
	return &GenerationLogHandler{genLogRepo: genLogRepo}
}

func (h *GenerationLogHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.genLogRepo.ListRecent(c.Request.Context(), nil, c.Query("kind"), limit)
	if err != nil {
		RespondError(c, statusForError(err), "generation_log_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}
