package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/services"
)

type QuestionHandler struct {
	log             *logger.Logger
	questionService services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		log:             log.With("handler", "QuestionHandler"),
		questionService: questionService,
	}
}

func (h *QuestionHandler) Generate(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	set, err := h.questionService.GenerateQuestions(c.Request.Context(), nil, req)
	if err != nil {
		h.log.Error("Generate questions failed", "role", req.Role, "error", err.Error())
		RespondError(c, statusForError(err), "question_generation_failed", err)
		return
	}
	RespondOK(c, set)
}

func (h *QuestionHandler) GenerateForSkill(c *gin.Context) {
	var req services.SkillQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	set, err := h.questionService.GenerateSkillQuestions(c.Request.Context(), nil, req)
	if err != nil {
		h.log.Error("Generate skill questions failed", "skill", req.Skill, "error", err.Error())
		RespondError(c, statusForError(err), "question_generation_failed", err)
		return
	}
	RespondOK(c, set)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.questionService.DeleteQuestion(c.Request.Context(), nil, id); err != nil {
		RespondError(c, statusForError(err), "question_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}
