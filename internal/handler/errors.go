package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/usermgmt/backend/internal/limiter"
	"github.com/usermgmt/backend/internal/model"
	"github.com/usermgmt/backend/internal/service"
)

// writeError maps service errors to status codes. Storage and other
// unexpected errors are logged and reported without detail.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrDuplicateEmail):
		abortWithError(c, http.StatusBadRequest, "Email already exists!")
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWithError(c, http.StatusBadRequest, "Email or password does not match")
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusBadRequest, "User with the token could not found")
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrUnauthorized):
		abortWithError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, limiter.ErrTooManyAttempts):
		abortWithError(c, http.StatusTooManyRequests, "too many login attempts")
	default:
		requestLogger(c).ErrorContext(c.Request.Context(), "request failed", "error", err)
		abortWithError(c, http.StatusInternalServerError, "server error")
	}
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{Error: msg})
}
