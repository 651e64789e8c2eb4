// Package api exposes the vocabulary store and practice sessions over HTTP.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kakitori/internal/domain"
)

// errorStatus maps domain errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidMeaningIndex),
		errors.Is(err, domain.ErrInvalidAudioIndex),
		errors.Is(err, domain.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrNoMeanings),
		errors.Is(err, domain.ErrNoWords):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateWord):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func respondSuccess(c *gin.Context, msg string) {
	body := gin.H{"success": true}
	if msg != "" {
		body["message"] = msg
	}
	c.JSON(http.StatusOK, body)
}

// bindOptionalJSON binds a JSON body when one is sent. A missing body leaves obj untouched,
// whatever Content-Length the client declared.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
