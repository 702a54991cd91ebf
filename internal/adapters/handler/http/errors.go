package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/readtrack-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/domain"
	"github.com/comitanigiacomo/readtrack-engine/internal/core/services"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var badRequestErrors = []error{
	domain.ErrInvalidGoalType,
	domain.ErrInvalidTimeType,
	domain.ErrInvalidUnitAmount,
	domain.ErrInvalidLog,
	domain.ErrLogInFuture,
	domain.ErrGoalInvalidUserID,
	services.ErrInvalidRange,
	services.ErrRangeTooLarge,
}

// respondError maps domain and service errors to a status code. Anything
// unrecognised is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: target.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrGoalConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "version conflict",
			Message: "Data has been modified elsewhere. Please sync.",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrGoalNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "goal not found"})
	case errors.Is(err, domain.ErrLogNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "goal log not found"})
	default:
		_ = c.Error(err)
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// requireUser returns the authenticated user, answering 401 when the auth
// middleware did not run.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	return userID, true
}
