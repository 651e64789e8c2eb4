package handler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"kakitori/internal/service"
)

const requestTimeout = 30 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot            *tele.Bot
	wordService    *service.WordService
	sessionService *service.SessionService
	logger         *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*userState
	stateMux sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	wordService *service.WordService,
	sessionService *service.SessionService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:            bot,
		wordService:    wordService,
		sessionService: sessionService,
		logger:         logger,
		states:         make(map[int64]*userState),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/score", h.handleScore)

	// Text messages look words up
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnPractice, h.handlePractice)
	h.bot.Handle(&btnRetryErrors, h.handleRetryErrors)
	h.bot.Handle(&btnReveal, h.handleReveal)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// transition applies fn to the user's state under the state lock and returns a snapshot
func (h *Handler) transition(userID int64, fn func(s *userState) error) (userState, error) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()

	state, exists := h.states[userID]
	if !exists {
		state = &userState{}
		h.states[userID] = state
	}
	err := fn(state)
	return *state, err
}

// ResetState drops any running practice for the user
func (h *Handler) ResetState(userID int64) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	delete(h.states, userID)
}

func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnPractice = tele.Btn{
		Unique: "practice_new",
		Text:   "🎧 New practice",
	}
	btnRetryErrors = tele.Btn{
		Unique: "practice_errors",
		Text:   "🔁 Retry last mistakes",
	}
	btnReveal = tele.Btn{
		Unique: "reveal",
		Text:   "👀 Reveal",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnPractice),
		menu.Row(btnRetryErrors),
	)
	return menu
}

// judgementMarkup returns the ✅/❌ keyboard for one judgement kind
func judgementMarkup(kind string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("✅ Correct", kind+"_1"),
		markup.Data("❌ Wrong", kind+"_0"),
	))
	return markup
}
