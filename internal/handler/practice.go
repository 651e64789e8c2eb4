package handler

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"kakitori/internal/domain"
	"kakitori/internal/service"
)

// handlePractice starts a fresh random session
func (h *Handler) handlePractice(c tele.Context) error {
	return h.startRun(c, service.StartInput{})
}

// handleRetryErrors replays the mistakes of the latest session
func (h *Handler) handleRetryErrors(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	sessionID, err := h.sessionService.Latest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "No previous session", ShowAlert: true})
	}
	if err != nil {
		h.logger.Error("Failed to get latest session", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to load session"})
	}

	return h.startRun(c, service.StartInput{SessionID: sessionID, OnlyErrors: true})
}

func (h *Handler) startRun(c tele.Context, in service.StartInput) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	practice, err := h.sessionService.Start(ctx, in)
	switch {
	case errors.Is(err, domain.ErrNoWords):
		text := "Your vocabulary is empty. Add words first."
		if in.OnlyErrors {
			text = "No mistakes to retry 🎉"
		}
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	case err != nil:
		h.logger.Error("Failed to start practice", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to start practice"})
	}

	state, _ := h.transition(userID, func(s *userState) error {
		s.start(practice)
		return nil
	})

	h.logger.Info("Practice started",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", practice.SessionID),
		zap.Int("words", len(practice.Words)),
		zap.Bool("only_errors", in.OnlyErrors),
	)

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return h.sendCurrent(c, state)
}

// sendCurrent sends the audio of the current word with the reveal button
func (h *Handler) sendCurrent(c tele.Context, state userState) error {
	word, ok := state.current()
	if !ok {
		return nil
	}

	caption := fmt.Sprintf("🎧 Word %d of %d\nWrite down what you hear.", state.position+1, len(state.words))
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnReveal), markup.Row(btnMainMenu))

	n := firstAudio(word.HasAudio)
	if n == 0 {
		return c.Send(caption+"\n\n(no audio available)", markup)
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	audio, err := h.wordService.Audio(ctx, word.WordID, n)
	if err != nil {
		h.logger.Warn("Failed to load audio", zap.Error(err), zap.Int("word_id", word.WordID), zap.Int("n", n))
		return c.Send(caption+"\n\n(no audio available)", markup)
	}

	return c.Send(&tele.Audio{
		File:     tele.FromReader(bytes.NewReader(audio)),
		FileName: fmt.Sprintf("word_%d.wav", word.WordID),
		MIME:     "audio/wav",
		Caption:  caption,
	}, markup)
}

// handleReveal shows the word and meaning and asks for the writing judgement
func (h *Handler) handleReveal(c tele.Context) error {
	userID := c.Sender().ID

	state, err := h.transition(userID, func(s *userState) error {
		return s.reveal()
	})
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This card is no longer active"})
	}

	word, _ := state.current()
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return c.Send(
		fmt.Sprintf("📝 %s\n💬 %s\n\nDid you write it correctly?", word.Word, word.Meaning),
		judgementMarkup(judgeWriting),
	)
}

// handleJudgement records one self-judgement and advances the run when both are in
func (h *Handler) handleJudgement(c tele.Context, kind string, correct bool) error {
	userID := c.Sender().ID

	var attempt domain.Attempt
	state, err := h.transition(userID, func(s *userState) error {
		if kind == judgeWriting {
			return s.judgeWriting(correct)
		}
		var err error
		attempt, err = s.judgeMeaning(correct)
		return err
	})
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "This card is no longer active"})
	}

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}

	if kind == judgeWriting {
		text := "Did you know the meaning?"
		if err := c.Edit(text, judgementMarkup(judgeMeaning)); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(text, judgementMarkup(judgeMeaning))
		}
		return nil
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	if err := h.sessionService.RecordAttempt(ctx, attempt.SessionID, attempt.WordID, attempt.WritingCorrect, attempt.MeaningCorrect); err != nil {
		h.logger.Error("Failed to record attempt",
			zap.Error(err),
			zap.Int64("session_id", attempt.SessionID),
			zap.Int("word_id", attempt.WordID),
		)
		_, _ = h.transition(userID, func(s *userState) error { return s.abortAttempt() })
		return c.Send("Failed to save your answer. Tap ✅ or ❌ again.", judgementMarkup(judgeMeaning))
	}

	state, err = h.transition(userID, func(s *userState) error { return s.commitAttempt() })
	if err != nil {
		return nil
	}
	if state.finished() {
		return h.finishRun(c, state.sessionID)
	}
	return h.sendCurrent(c, state)
}

func (h *Handler) finishRun(c tele.Context, sessionID int64) error {
	userID := c.Sender().ID
	ctx, cancel := h.requestContext()
	defer cancel()

	summary, err := h.sessionService.Summary(ctx, sessionID)
	if err != nil {
		h.logger.Error("Failed to score session", zap.Error(err), zap.Int64("session_id", sessionID))
		return c.Send("Practice finished.", mainMenuMarkup())
	}

	h.logger.Info("Practice finished",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID),
		zap.Float64("score", summary.Score),
	)

	return c.Send("🏁 Practice finished!\n\n"+formatSummary(summary), mainMenuMarkup())
}

// firstAudio returns the 1-based number of the first present clip, or 0
func firstAudio(present [domain.VoiceCount]bool) int {
	for i, ok := range present {
		if ok {
			return i + 1
		}
	}
	return 0
}
