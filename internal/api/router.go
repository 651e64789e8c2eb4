package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kakitori/internal/middleware"
)

// RouterConfig holds the handlers mounted by NewRouter
type RouterConfig struct {
	Words    *WordHandler
	Practice *PracticeHandler
	Status   *StatusHandler
	Logger   *zap.Logger
}

// NewRouter builds the HTTP routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GinLogger(cfg.Logger))

	r.GET("/healthz", cfg.Status.Health)

	api := r.Group("/api")
	{
		api.GET("/status", cfg.Status.Status)

		// Vocabulary
		api.GET("/words", cfg.Words.List)
		api.GET("/words/:id", cfg.Words.Get)
		api.PUT("/words/:id", cfg.Words.Update)
		api.DELETE("/words/:id", cfg.Words.Delete)
		api.POST("/words/:id/regenerate-audio", cfg.Words.RegenerateAudio)
		api.GET("/audio/:id/:n", cfg.Words.Audio)

		// Acquisition
		api.POST("/check-word", cfg.Words.Check)
		api.POST("/get-meanings", cfg.Words.Meanings)
		api.POST("/save-word", cfg.Words.Save)

		// Practice
		api.POST("/start-practice", cfg.Practice.Start)
		api.POST("/submit-attempt", cfg.Practice.SubmitAttempt)
		api.GET("/session-score/:id", cfg.Practice.Score)
	}

	return r
}
