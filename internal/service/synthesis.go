package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kakitori/internal/domain"
	"kakitori/internal/provider"
)

// SynthesisService produces the per-voice pronunciations of a word
type SynthesisService struct {
	speech provider.SpeechProvider
	voices []string
	logger *zap.Logger
}

// NewSynthesisService creates a new synthesis service for the given voices
func NewSynthesisService(speech provider.SpeechProvider, voices []string, logger *zap.Logger) *SynthesisService {
	return &SynthesisService{
		speech: speech,
		voices: voices,
		logger: logger,
	}
}

// Voices returns the configured voice identities
func (s *SynthesisService) Voices() []string {
	return s.voices
}

// Configured reports whether the speech provider has credentials
func (s *SynthesisService) Configured() bool {
	return s.speech.Configured()
}

// Synthesize returns audio for text spoken by voice, or nil when the provider
// is unconfigured, rejects the request or is cancelled
func (s *SynthesisService) Synthesize(ctx context.Context, voice, text string) []byte {
	audio, err := s.speech.Synthesize(ctx, voice, text)
	if err != nil {
		s.logger.Warn("Speech synthesis failed",
			zap.String("voice", voice),
			zap.String("text", text),
			zap.Error(err),
		)
		return nil
	}
	return audio
}

// SynthesizeAll speaks text with every configured voice concurrently.
// It fails with ErrProviderUnavailable only when no voice produced audio.
func (s *SynthesisService) SynthesizeAll(ctx context.Context, text string) (domain.AudioSet, error) {
	var audio domain.AudioSet

	var g errgroup.Group
	for i, voice := range s.voices {
		if i >= domain.VoiceCount {
			break
		}
		i, voice := i, voice
		g.Go(func() error {
			audio[i] = s.Synthesize(ctx, voice, text)
			return nil
		})
	}
	_ = g.Wait()

	if !audio.Any() {
		return audio, domain.ErrProviderUnavailable
	}

	present := audio.Present()
	s.logger.Info("Audio generated",
		zap.String("text", text),
		zap.Bools("voices", present[:]),
	)
	return audio, nil
}
