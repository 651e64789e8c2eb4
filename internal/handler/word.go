package handler

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"kakitori/internal/domain"
	"kakitori/internal/service"
)

// handleText looks up any plain text message as a word
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	word := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if word == "" || strings.HasPrefix(word, "/") {
		return nil
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	exists, err := h.wordService.Exists(ctx, word)
	if err != nil {
		h.logger.Error("Failed to check word", zap.Error(err), zap.String("word", word))
		return c.Send("Something went wrong. Try again later.")
	}

	result := h.wordService.Lookup(ctx, word, false)
	switch result.Outcome {
	case service.OutcomeFailed:
		return c.Send("The dictionary is unavailable right now. Try again later.")
	case service.OutcomeEmpty:
		return c.Send(fmt.Sprintf("No meanings found for %s.", word))
	}

	_, _ = h.transition(userID, func(s *userState) error {
		s.lookupWord = word
		return nil
	})

	return c.Send(formatCandidates(word, exists, result.Candidates), candidatesMarkup(exists, result.Candidates))
}

// handleSave saves the looked up word with the chosen sense
func (h *Handler) handleSave(c tele.Context, index int) error {
	userID := c.Sender().ID

	state, _ := h.transition(userID, func(*userState) error { return nil })
	if state.lookupWord == "" {
		return c.Respond(&tele.CallbackResponse{Text: "Send the word again first"})
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	w, err := h.wordService.Save(ctx, service.SaveWordInput{Word: state.lookupWord, MeaningIndex: index})
	switch {
	case errors.Is(err, domain.ErrDuplicateWord):
		return c.Respond(&tele.CallbackResponse{Text: "Already in your vocabulary", ShowAlert: true})
	case errors.Is(err, domain.ErrProviderUnavailable):
		return c.Respond(&tele.CallbackResponse{Text: "Audio generation failed, word not saved", ShowAlert: true})
	case errors.Is(err, domain.ErrNoMeanings), errors.Is(err, domain.ErrInvalidMeaningIndex):
		return c.Respond(&tele.CallbackResponse{Text: "That meaning is no longer available", ShowAlert: true})
	case err != nil:
		h.logger.Error("Failed to save word", zap.Error(err), zap.String("word", state.lookupWord))
		return c.Respond(&tele.CallbackResponse{Text: "Failed to save word"})
	}

	_ = c.Respond()
	return c.Send(fmt.Sprintf("✅ Saved %s (%s)\n💬 %s", w.Word, w.Level, w.Meaning), mainMenuMarkup())
}

func formatCandidates(word string, exists bool, candidates []domain.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 %s", word)
	if exists {
		b.WriteString(" (already saved)")
	}
	b.WriteString("\n\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "%d. %s [%s] %s\n   %s\n", c.Index+1, c.Kanji, c.Furigana, c.Level, c.Meaning)
	}
	return b.String()
}

// candidatesMarkup offers one save button per sense unless the word is already saved
func candidatesMarkup(exists bool, candidates []domain.Candidate) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	if !exists {
		var row tele.Row
		for _, c := range candidates {
			row = append(row, markup.Data(fmt.Sprintf("💾 %d", c.Index+1), fmt.Sprintf("%s_%d", saveAction, c.Index)))
			if len(row) == 5 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)
	return markup
}
