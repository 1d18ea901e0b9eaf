package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsetrail/pulsetrail/internal/activity/domain"
	"gorm.io/gorm"
)

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listResponse struct {
	Success    bool              `json:"success"`
	Data       []domain.Activity `json:"data"`
	NextCursor *string           `json:"nextCursor"`
	HasMore    bool              `json:"hasMore"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

var (
	ErrRateLimited = errors.New("rate_limited")
)

// ErrorHandlingMiddleware converts handler errors recorded via AbortWithError
// into the response envelope. Handlers that already wrote a body win.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

var validationErrors = []error{
	domain.ErrInvalidTenant,
	domain.ErrInvalidActor,
	domain.ErrInvalidActorName,
	domain.ErrInvalidType,
	domain.ErrInvalidCursor,
	domain.ErrInvalidLimit,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// mapError resolves an error to a status code and a client-facing message.
// Validation errors surface their code; everything else is genericized so
// storage internals never leak into responses.
func mapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal server error"
	case isValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, ErrRateLimited.Error()
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, message := mapError(err)
	switch {
	case status == http.StatusBadRequest:
		return "validation_error", message
	case status == http.StatusTooManyRequests:
		return "rate_limited", message
	case status >= http.StatusInternalServerError:
		return "internal_error", "internal server error"
	default:
		return "request_error", message
	}
}
