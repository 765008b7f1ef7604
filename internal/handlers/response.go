package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborpeak/dealdesk-backend/internal/apperr"
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

// RespondAppError maps the core error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error.
func RespondAppError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case apperr.IsNotFound(err):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case apperr.IsNotEligible(err):
		RespondError(c, http.StatusConflict, "not_eligible", err)
	case apperr.IsInvalidTransition(err):
		RespondError(c, http.StatusConflict, "invalid_state_transition", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
