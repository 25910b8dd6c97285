package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/logger"
)

type apiErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrReadOnly):
		return http.StatusMethodNotAllowed
	case errors.Is(err, domain.ErrCorpusUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status derived from it.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("HTTP %d %s %s: %v", status, c.Request.Method, c.FullPath(), err)
	} else {
		logger.Debug("HTTP %d %s %s: %v", status, c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, apiErrorResponse{Error: err.Error()})
}

// writeBadRequest renders a request decoding failure.
func writeBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apiErrorResponse{Error: message})
}
