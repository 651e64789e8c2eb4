package service

import (
	"context"

	"go.uber.org/zap"

	"kakitori/internal/repository"
)

// Status describes provider configuration and vocabulary size
type Status struct {
	SpeechConfigured     bool
	TranslatorConfigured bool
	Words                int
}

// StatusService reports the health of the acquisition pipeline
type StatusService struct {
	wordRepo  repository.WordRepository
	lookup    *LookupService
	synthesis *SynthesisService
	logger    *zap.Logger
}

// NewStatusService creates a new status service
func NewStatusService(
	wordRepo repository.WordRepository,
	lookup *LookupService,
	synthesis *SynthesisService,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		wordRepo:  wordRepo,
		lookup:    lookup,
		synthesis: synthesis,
		logger:    logger,
	}
}

// Status returns the current provider configuration and word count
func (s *StatusService) Status(ctx context.Context) (*Status, error) {
	count, err := s.wordRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count words", zap.Error(err))
		return nil, err
	}

	return &Status{
		SpeechConfigured:     s.synthesis.Configured(),
		TranslatorConfigured: s.lookup.TranslatorConfigured(),
		Words:                count,
	}, nil
}
