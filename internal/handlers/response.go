package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathprep/pathprep-backend/internal/clients/groq"
	"github.com/pathprep/pathprep-backend/internal/repos"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// statusForError maps service errors to HTTP statuses: missing records are
// 404, provider outages are 503, failed generations are 502, everything
// else is 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, groq.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, groq.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
