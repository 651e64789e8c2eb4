package handler

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"kakitori/internal/domain"
)

const mainMenuText = "🏠 Main menu\n\nListen, write the word down, then check yourself.\nSend any word to look it up."

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User opened menu",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	h.ResetState(userID)

	if c.Callback() != nil {
		if err := c.Edit(mainMenuText, mainMenuMarkup()); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(mainMenuText, mainMenuMarkup())
		}
		return c.Respond()
	}
	return c.Send(mainMenuText, mainMenuMarkup())
}

// handleScore handles /score command
func (h *Handler) handleScore(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	sessionID, err := h.sessionService.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Send("No practice sessions yet.", mainMenuMarkup())
	}
	if err != nil {
		h.logger.Error("Failed to get latest session", zap.Error(err))
		return c.Send("Something went wrong. Try again later.")
	}

	summary, err := h.sessionService.Summary(ctx, sessionID)
	if err != nil {
		h.logger.Error("Failed to get session summary", zap.Error(err), zap.Int64("session_id", sessionID))
		return c.Send("Something went wrong. Try again later.")
	}

	return c.Send(formatSummary(summary), mainMenuMarkup())
}

func formatSummary(s *domain.SessionSummary) string {
	return fmt.Sprintf("📊 Session #%d\n\nScore: %.2f / 10\nCorrect: %d of %d attempts (%d words)",
		s.SessionID, s.Score, s.Correct, s.Attempts, s.Words)
}
