package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kakitori/internal/service"
)

type startPracticeRequest struct {
	SessionID  int64 `json:"session_id"`
	WordCount  int   `json:"word_count"`
	OnlyErrors bool  `json:"only_errors"`
}

type practiceWordResponse struct {
	SessionID int64  `json:"session_id"`
	ID        int    `json:"id"`
	Word      string `json:"word"`
	Meaning   string `json:"meaning"`
}

type submitAttemptRequest struct {
	SessionID      int64 `json:"session_id" binding:"required"`
	WordID         int   `json:"word_id" binding:"required"`
	WritingCorrect bool  `json:"writing_correct"`
	MeaningCorrect bool  `json:"meaning_correct"`
}

// PracticeHandler serves practice session endpoints
type PracticeHandler struct {
	sessions *service.SessionService
	logger   *zap.Logger
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(sessions *service.SessionService, logger *zap.Logger) *PracticeHandler {
	return &PracticeHandler{
		sessions: sessions,
		logger:   logger.With(zap.String("handler", "practice")),
	}
}

// Start handles POST /api/start-practice
func (h *PracticeHandler) Start(c *gin.Context) {
	var req startPracticeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	practice, err := h.sessions.Start(c.Request.Context(), service.StartInput{
		SessionID:  req.SessionID,
		WordCount:  req.WordCount,
		OnlyErrors: req.OnlyErrors,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	words := make([]practiceWordResponse, 0, len(practice.Words))
	for _, w := range practice.Words {
		words = append(words, practiceWordResponse{
			SessionID: w.SessionID,
			ID:        w.WordID,
			Word:      w.Word,
			Meaning:   w.Meaning,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": practice.SessionID,
		"words":      words,
	})
}

// SubmitAttempt handles POST /api/submit-attempt
func (h *PracticeHandler) SubmitAttempt(c *gin.Context) {
	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "session_id and word_id are required")
		return
	}

	err := h.sessions.RecordAttempt(c.Request.Context(), req.SessionID, req.WordID, req.WritingCorrect, req.MeaningCorrect)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, "")
}

// Score handles GET /api/session-score/:id
func (h *PracticeHandler) Score(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid id")
		return
	}

	summary, err := h.sessions.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score":    summary.Score,
		"words":    summary.Words,
		"attempts": summary.Attempts,
		"correct":  summary.Correct,
	})
}
