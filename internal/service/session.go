package service

import (
	"context"

	"go.uber.org/zap"

	"kakitori/internal/domain"
	"kakitori/internal/repository"
)

// StartInput selects how a practice run begins.
// A zero SessionID draws a fresh random session of WordCount words.
type StartInput struct {
	SessionID  int64
	WordCount  int
	OnlyErrors bool
}

// SessionService runs practice sessions and scores them
type SessionService struct {
	sessionRepo  repository.SessionRepository
	defaultCount int
	logger       *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repository.SessionRepository, defaultCount int, logger *zap.Logger) *SessionService {
	if defaultCount <= 0 {
		defaultCount = 5
	}
	return &SessionService{
		sessionRepo:  sessionRepo,
		defaultCount: defaultCount,
		logger:       logger,
	}
}

// Start dispatches to a fresh, replayed or errors-only session
func (s *SessionService) Start(ctx context.Context, in StartInput) (*domain.Practice, error) {
	switch {
	case in.SessionID == 0:
		return s.StartFresh(ctx, in.WordCount)
	case in.OnlyErrors:
		return s.StartErrorsOnly(ctx, in.SessionID)
	default:
		return s.StartFromSession(ctx, in.SessionID)
	}
}

// StartFresh creates a session over count distinct random words
func (s *SessionService) StartFresh(ctx context.Context, count int) (*domain.Practice, error) {
	if count <= 0 {
		count = s.defaultCount
	}

	sessionID, words, err := s.sessionRepo.CreateWithRandomWords(ctx, count)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Practice session created",
		zap.Int64("session_id", sessionID),
		zap.Int("requested", count),
		zap.Int("words", len(words)),
	)

	return &domain.Practice{SessionID: sessionID, Words: words}, nil
}

// StartFromSession replays every word of an existing session
func (s *SessionService) StartFromSession(ctx context.Context, sessionID int64) (*domain.Practice, error) {
	return s.replay(ctx, sessionID, false)
}

// StartErrorsOnly replays the words whose latest attempt in the session was not fully correct
func (s *SessionService) StartErrorsOnly(ctx context.Context, sessionID int64) (*domain.Practice, error) {
	return s.replay(ctx, sessionID, true)
}

func (s *SessionService) replay(ctx context.Context, sessionID int64, onlyErrors bool) (*domain.Practice, error) {
	exists, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	words, err := s.sessionRepo.Words(ctx, sessionID, onlyErrors)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, domain.ErrNoWords
	}

	if err := s.sessionRepo.ClearAttempts(ctx, sessionID); err != nil {
		return nil, err
	}

	s.logger.Info("Practice session restarted",
		zap.Int64("session_id", sessionID),
		zap.Bool("only_errors", onlyErrors),
		zap.Int("words", len(words)),
	)

	return &domain.Practice{SessionID: sessionID, Words: words}, nil
}

// RecordAttempt appends one judged attempt to a session
func (s *SessionService) RecordAttempt(ctx context.Context, sessionID int64, wordID int, writingCorrect, meaningCorrect bool) error {
	err := s.sessionRepo.InsertAttempt(ctx, domain.Attempt{
		SessionID:      sessionID,
		WordID:         wordID,
		WritingCorrect: writingCorrect,
		MeaningCorrect: meaningCorrect,
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Attempt recorded",
		zap.Int64("session_id", sessionID),
		zap.Int("word_id", wordID),
		zap.Bool("writing_correct", writingCorrect),
		zap.Bool("meaning_correct", meaningCorrect),
	)
	return nil
}

// Score returns the 0..10 score of a session
func (s *SessionService) Score(ctx context.Context, sessionID int64) (float64, error) {
	summary, err := s.Summary(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return summary.Score, nil
}

// Summary returns the word, attempt and correct counts of a session with its score
func (s *SessionService) Summary(ctx context.Context, sessionID int64) (*domain.SessionSummary, error) {
	exists, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	words, attempts, correct, err := s.sessionRepo.Counts(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &domain.SessionSummary{
		SessionID: sessionID,
		Words:     words,
		Attempts:  attempts,
		Correct:   correct,
		Score:     domain.Score(correct, words),
	}, nil
}

// Latest returns the id of the most recently created session
func (s *SessionService) Latest(ctx context.Context) (int64, error) {
	return s.sessionRepo.Latest(ctx)
}
