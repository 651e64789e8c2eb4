package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kakitori/internal/domain"
	"kakitori/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// SaveWordInput selects a dictionary sense to persist
type SaveWordInput struct {
	Word          string
	MeaningIndex  int
	UseKanji      bool
	CustomMeaning string
}

// WordService handles vocabulary acquisition and maintenance
type WordService struct {
	wordRepo  repository.WordRepository
	lookup    *LookupService
	synthesis *SynthesisService
	logger    *zap.Logger
}

// NewWordService creates a new word service
func NewWordService(
	wordRepo repository.WordRepository,
	lookup *LookupService,
	synthesis *SynthesisService,
	logger *zap.Logger,
) *WordService {
	return &WordService{
		wordRepo:  wordRepo,
		lookup:    lookup,
		synthesis: synthesis,
		logger:    logger,
	}
}

// Exists reports whether word is already saved
func (s *WordService) Exists(ctx context.Context, word string) (bool, error) {
	return s.wordRepo.Exists(ctx, strings.TrimSpace(word))
}

// Lookup returns the candidate senses of word
func (s *WordService) Lookup(ctx context.Context, word string, loadMore bool) LookupResult {
	return s.lookup.Lookup(ctx, word, loadMore)
}

// Save runs the acquisition pipeline: pick a sense, synthesize its audio and persist it
func (s *WordService) Save(ctx context.Context, in SaveWordInput) (*domain.Word, error) {
	word := strings.TrimSpace(in.Word)
	if word == "" {
		return nil, fmt.Errorf("word cannot be empty: %w", domain.ErrEmptyInput)
	}

	exists, err := s.wordRepo.Exists(ctx, word)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateWord
	}

	candidate, err := s.lookup.Candidate(ctx, word, in.MeaningIndex)
	if err != nil {
		return nil, err
	}

	meaning := candidate.Meaning
	if custom := strings.TrimSpace(in.CustomMeaning); custom != "" {
		meaning = custom
	}

	text := domain.SpeechText(candidate.Word, candidate.Kanji, in.UseKanji)
	audio, err := s.synthesis.SynthesizeAll(ctx, text)
	if err != nil {
		return nil, err
	}

	w := domain.Word{
		Word:     candidate.Word,
		Kanji:    candidate.Kanji,
		Level:    domain.NormalizeLevel(candidate.Level),
		Meaning:  meaning,
		Audio:    audio,
		HasAudio: audio.Present(),
	}

	id, err := s.wordRepo.Insert(ctx, w)
	if err != nil {
		return nil, err
	}
	w.ID = id

	s.logger.Info("Word saved",
		zap.Int("word_id", id),
		zap.String("word", w.Word),
		zap.String("kanji", w.Kanji),
		zap.String("level", w.Level),
	)

	return &w, nil
}

// Get returns a word by id
func (s *WordService) Get(ctx context.Context, id int) (*domain.Word, error) {
	return s.wordRepo.Get(ctx, id)
}

// List returns a page of words matching search
func (s *WordService) List(ctx context.Context, page, perPage int, search string) (*domain.WordPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPageSize {
		perPage = defaultPageSize
	}

	offset := (page - 1) * perPage
	words, total, err := s.wordRepo.List(ctx, perPage, offset, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	return &domain.WordPage{
		Words:   words,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   (total + perPage - 1) / perPage,
	}, nil
}

// Update edits the kanji, level and meaning of a word
func (s *WordService) Update(ctx context.Context, id int, kanji, level, meaning string) error {
	if err := s.wordRepo.Update(ctx, id, strings.TrimSpace(kanji), strings.TrimSpace(level), strings.TrimSpace(meaning)); err != nil {
		return err
	}

	s.logger.Info("Word updated", zap.Int("word_id", id))
	return nil
}

// Delete removes a word and everything that references it
func (s *WordService) Delete(ctx context.Context, id int) error {
	if err := s.wordRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Word deleted", zap.Int("word_id", id))
	return nil
}

// RegenerateAudio re-synthesizes all pronunciations of a word.
// The stored audio is replaced only when at least one voice succeeded.
func (s *WordService) RegenerateAudio(ctx context.Context, id int, useKanji bool) error {
	w, err := s.wordRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	audio, err := s.synthesis.SynthesizeAll(ctx, w.SpeechText(useKanji))
	if err != nil {
		return err
	}

	if err := s.wordRepo.UpdateAudio(ctx, id, audio); err != nil {
		return err
	}

	s.logger.Info("Audio regenerated", zap.Int("word_id", id), zap.Bool("use_kanji", useKanji))
	return nil
}

// Audio returns pronunciation n (1-based) of a word
func (s *WordService) Audio(ctx context.Context, id, n int) ([]byte, error) {
	if n < 1 || n > domain.VoiceCount {
		return nil, domain.ErrInvalidAudioIndex
	}

	audio, err := s.wordRepo.GetAudio(ctx, id, n)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("audio %d of word %d: %w", n, id, domain.ErrNotFound)
	}
	return audio, nil
}
