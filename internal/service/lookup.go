package service

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"kakitori/internal/domain"
	"kakitori/internal/provider"
)

// LookupOutcome tells an empty result apart from a failed provider call
type LookupOutcome string

const (
	OutcomeFound  LookupOutcome = "found"
	OutcomeEmpty  LookupOutcome = "empty"
	OutcomeFailed LookupOutcome = "failed"
)

const lookupCacheSize = 128

// LookupResult is the outcome of one dictionary lookup
type LookupResult struct {
	Word       string
	Candidates []domain.Candidate
	HasMore    bool
	Outcome    LookupOutcome
}

// LookupOptions configures result caps and caching
type LookupOptions struct {
	Limit         int
	ExtendedLimit int
	CacheTTL      time.Duration
}

// LookupService finds candidate senses for a word and enriches their glosses
type LookupService struct {
	source        provider.DictionarySource
	translator    provider.Translator
	cache         *expirable.LRU[string, []domain.Candidate]
	limit         int
	extendedLimit int
	logger        *zap.Logger
}

// NewLookupService creates a new lookup service. A zero CacheTTL disables caching.
func NewLookupService(
	source provider.DictionarySource,
	translator provider.Translator,
	opts LookupOptions,
	logger *zap.Logger,
) *LookupService {
	s := &LookupService{
		source:        source,
		translator:    translator,
		limit:         opts.Limit,
		extendedLimit: opts.ExtendedLimit,
		logger:        logger,
	}
	if s.extendedLimit < s.limit {
		s.extendedLimit = s.limit
	}
	if opts.CacheTTL > 0 {
		s.cache = expirable.NewLRU[string, []domain.Candidate](lookupCacheSize, nil, opts.CacheTTL)
	}
	return s
}

// Lookup queries the dictionary for word. Provider failures never surface as errors:
// they produce an empty candidate list with OutcomeFailed.
func (s *LookupService) Lookup(ctx context.Context, word string, loadMore bool) LookupResult {
	word = strings.TrimSpace(word)
	limit := s.limit
	if loadMore {
		limit = s.extendedLimit
	}

	result := LookupResult{Word: word, Outcome: OutcomeEmpty}
	if word == "" {
		return result
	}

	raw, err := s.source.Search(ctx, word, limit)
	if err != nil {
		s.logger.Warn("Dictionary lookup failed", zap.String("word", word), zap.Error(err))
		result.Outcome = OutcomeFailed
		return result
	}

	candidates := s.enrich(ctx, raw)
	if s.cache != nil {
		s.cache.Add(word, candidates)
	}

	s.logger.Info("Dictionary lookup completed",
		zap.String("word", word),
		zap.Int("limit", limit),
		zap.Int("candidates", len(candidates)),
	)

	result.Candidates = candidates
	result.HasMore = len(candidates) >= limit
	if len(candidates) > 0 {
		result.Outcome = OutcomeFound
	}
	return result
}

// Candidate returns the sense at index for word, served from the cache of the
// previous lookup when possible and from a live extended lookup otherwise.
func (s *LookupService) Candidate(ctx context.Context, word string, index int) (domain.Candidate, error) {
	word = strings.TrimSpace(word)
	if index < 0 {
		return domain.Candidate{}, domain.ErrInvalidMeaningIndex
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(word); ok && index < len(cached) {
			return cached[index], nil
		}
	}

	result := s.Lookup(ctx, word, true)
	if result.Outcome != OutcomeFound {
		return domain.Candidate{}, domain.ErrNoMeanings
	}
	if index >= len(result.Candidates) {
		return domain.Candidate{}, domain.ErrInvalidMeaningIndex
	}
	return result.Candidates[index], nil
}

// TranslatorConfigured reports whether glosses will be translated
func (s *LookupService) TranslatorConfigured() bool {
	return s.translator.Configured()
}

// enrich appends the translated gloss as "source/translated", keeping the source gloss on failure
func (s *LookupService) enrich(ctx context.Context, candidates []domain.Candidate) []domain.Candidate {
	if !s.translator.Configured() {
		return candidates
	}

	enriched := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		translated, err := s.translator.Translate(ctx, c.Meaning)
		if err != nil {
			s.logger.Warn("Gloss translation failed, keeping source gloss",
				zap.String("gloss", c.Meaning),
				zap.Error(err),
			)
		} else if translated != "" {
			c.Meaning = c.Meaning + "/" + translated
		}
		enriched = append(enriched, c)
	}
	return enriched
}
