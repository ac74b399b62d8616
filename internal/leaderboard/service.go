package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Entry is one leaderboard row from the quiz_leaderboard view.
type Entry struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	TotalScore   int       `json:"total_score"`
	HighestScore int       `json:"highest_score"`
	AverageScore float64   `json:"average_score"`
	LastQuizDate time.Time `json:"last_quiz_date"`
	AvatarURL    string    `json:"avatar_url"`
}

// Store reads the aggregated leaderboard (implemented by
// repository.LeaderboardRepository).
type Store interface {
	TopScores(ctx context.Context, limit int) ([]Entry, error)
}

// Cache is the short-TTL read-through layer in front of the view.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const defaultTopN = 10

// Service serves the top-N leaderboard with a cache in front of the
// Postgres view. Cache failures degrade to a direct read, never an error.
type Service struct {
	store  Store
	cache  Cache
	ttl    time.Duration
	topN   int
	logger zerolog.Logger
}

type ServiceOptions struct {
	CacheTTL time.Duration
	TopN     int
}

func NewService(store Store, cache Cache, opts ServiceOptions, logger zerolog.Logger) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		topN:   topN,
		logger: logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

// Top returns the current top-N entries, preferring the cache.
func (s *Service) Top(ctx context.Context) ([]Entry, error) {
	key := fmt.Sprintf("leaderboard:top:%d", s.topN)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil && data != nil {
			var entries []Entry
			decodeErr := json.Unmarshal(data, &entries)
			if decodeErr == nil {
				return entries, nil
			}
			s.logger.Warn().Err(decodeErr).Msg("cached leaderboard payload corrupt")
		}
	}

	entries, err := s.store.TopScores(ctx, s.topN)
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.logger.Warn().Err(err).Msg("leaderboard cache write failed")
			}
		}
	}
	return entries, nil
}

// RedisCache implements Cache on a redis client.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

var _ Cache = (*RedisCache)(nil)

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
