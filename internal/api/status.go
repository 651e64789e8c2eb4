package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kakitori/internal/service"
)

// StatusHandler reports service health
type StatusHandler struct {
	status *service.StatusService
	logger *zap.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(status *service.StatusService, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		status: status,
		logger: logger.With(zap.String("handler", "status")),
	}
}

// Health handles GET /healthz
func (h *StatusHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Status handles GET /api/status
func (h *StatusHandler) Status(c *gin.Context) {
	status, err := h.status.Status(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"azure_speech":     status.SpeechConfigured,
		"azure_translator": status.TranslatorConfigured,
		"words":            status.Words,
	})
}
