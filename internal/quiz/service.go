package quiz

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"
)

// CacheStore persists generated quizzes keyed by FilterKey (implemented by
// the Postgres-backed repository).
type CacheStore interface {
	ListByFilter(ctx context.Context, key FilterKey) ([]CachedQuiz, error)
	Insert(ctx context.Context, key FilterKey, quiz Quiz) error
}

// CompletionProvider produces a single text completion for a prompt.
type CompletionProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// DefaultCacheThreshold is the number of cached generations a filter key
// must accumulate before requests are served from cache.
const DefaultCacheThreshold = 5

// Service resolves quiz requests against the diversity cache and falls
// back to fresh generation through the completion provider.
type Service struct {
	cache     CacheStore
	provider  CompletionProvider
	threshold int
	pick      func(n int) int
	logger    zerolog.Logger
}

type ServiceOptions struct {
	// CacheThreshold overrides DefaultCacheThreshold when > 0.
	CacheThreshold int
}

func NewService(cache CacheStore, provider CompletionProvider, opts ServiceOptions, logger zerolog.Logger) *Service {
	threshold := opts.CacheThreshold
	if threshold <= 0 {
		threshold = DefaultCacheThreshold
	}
	return &Service{
		cache:     cache,
		provider:  provider,
		threshold: threshold,
		pick:      rand.Intn,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

// Resolve applies the bounded-diversity policy: once at least threshold
// cached generations match the key, one of them is picked uniformly at
// random; below the threshold a fresh quiz is generated and appended, so
// variety keeps building while provider spend stays bounded.
func (s *Service) Resolve(ctx context.Context, key FilterKey) (Quiz, error) {
	cached, err := s.cache.ListByFilter(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("filter", key.CacheTag()).Msg("cache lookup failed")
	}
	if len(cached) >= s.threshold {
		cacheHits.Inc()
		return cached[s.pick(len(cached))].Quiz, nil
	}
	return s.GenerateFresh(ctx, key)
}

// GenerateFresh always calls the provider: prompt build, completion,
// normalization and validation, then a best-effort cache append. The match
// coordinator uses it directly so match quizzes never reuse cached rows.
func (s *Service) GenerateFresh(ctx context.Context, key FilterKey) (Quiz, error) {
	reply, err := s.provider.Complete(ctx, SystemPrompt, BuildPrompt(key))
	if err != nil {
		generations.WithLabelValues("provider_error").Inc()
		return nil, &ProviderError{Err: err}
	}

	parsed, err := Normalize(reply)
	if err != nil {
		generations.WithLabelValues("parse_error").Inc()
		return nil, err
	}
	quiz, err := Validate(parsed)
	if err != nil {
		generations.WithLabelValues("schema_error").Inc()
		return nil, err
	}
	generations.WithLabelValues("ok").Inc()

	// The cache is an optimization: a failed insert must not fail the
	// request that already holds a valid quiz.
	if err := s.cache.Insert(ctx, key, quiz); err != nil {
		s.logger.Warn().Err(err).Str("filter", key.CacheTag()).Msg("cache insert failed")
	}
	return quiz, nil
}
