// Package provider declares the remote capabilities the services depend on.
package provider

import (
	"context"

	"kakitori/internal/domain"
)

// DictionarySource returns dictionary senses for a query word
type DictionarySource interface {
	Search(ctx context.Context, word string, limit int) ([]domain.Candidate, error)
}

// Translator translates gloss text into the learner's language
type Translator interface {
	Configured() bool
	Translate(ctx context.Context, text string) (string, error)
}

// SpeechProvider turns text into audio with a given voice
type SpeechProvider interface {
	Configured() bool
	Synthesize(ctx context.Context, voice, text string) ([]byte, error)
}
