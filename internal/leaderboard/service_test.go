package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	entries []Entry
	err     error
	calls   int
	lastN   int
}

func (s *stubStore) TopScores(_ context.Context, limit int) ([]Entry, error) {
	s.calls++
	s.lastN = limit
	return s.entries, s.err
}

type memCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	ttls   map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func sampleEntries() []Entry {
	return []Entry{
		{UserID: "u1", Username: "Alice", TotalScore: 40, HighestScore: 5, AverageScore: 4.0},
		{UserID: "u2", Username: "Bob", TotalScore: 12, HighestScore: 4, AverageScore: 3.0},
	}
}

func TestTopMissReadsStoreAndWarmsCache(t *testing.T) {
	store := &stubStore{entries: sampleEntries()}
	cache := newMemCache()
	svc := NewService(store, cache, ServiceOptions{TopN: 10, CacheTTL: 30 * time.Second}, zerolog.Nop())

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), entries)
	assert.Equal(t, 10, store.lastN)

	cached, ok := cache.data["leaderboard:top:10"]
	require.True(t, ok, "a store read must warm the cache")
	assert.Equal(t, 30*time.Second, cache.ttls["leaderboard:top:10"])

	var fromCache []Entry
	require.NoError(t, json.Unmarshal(cached, &fromCache))
	assert.Equal(t, entries, fromCache)
}

func TestTopHitSkipsStore(t *testing.T) {
	store := &stubStore{err: errors.New("must not be called")}
	cache := newMemCache()
	payload, err := json.Marshal(sampleEntries())
	require.NoError(t, err)
	cache.data["leaderboard:top:10"] = payload

	svc := NewService(store, cache, ServiceOptions{TopN: 10}, zerolog.Nop())

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), entries)
	assert.Zero(t, store.calls)
}

func TestTopCacheGetFailureFallsBackToStore(t *testing.T) {
	store := &stubStore{entries: sampleEntries()}
	cache := newMemCache()
	cache.getErr = errors.New("redis down")

	svc := NewService(store, cache, ServiceOptions{}, zerolog.Nop())

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), entries)
	assert.Equal(t, 1, store.calls)
}

func TestTopCorruptCachePayloadFallsBackToStore(t *testing.T) {
	store := &stubStore{entries: sampleEntries()}
	cache := newMemCache()
	cache.data["leaderboard:top:10"] = []byte("{not json")

	var logBuf bytes.Buffer
	svc := NewService(store, cache, ServiceOptions{TopN: 10}, zerolog.New(&logBuf))

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), entries)
	assert.Equal(t, 1, store.calls)

	// The warn entry must carry the decode error, not a nil cache error.
	assert.Contains(t, logBuf.String(), "cached leaderboard payload corrupt")
	assert.Contains(t, logBuf.String(), "invalid character")
}

func TestTopCacheSetFailureIsNotFatal(t *testing.T) {
	store := &stubStore{entries: sampleEntries()}
	cache := newMemCache()
	cache.setErr = errors.New("oom")

	svc := NewService(store, cache, ServiceOptions{}, zerolog.Nop())

	entries, err := svc.Top(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), entries)
}

func TestTopStoreFailure(t *testing.T) {
	store := &stubStore{err: errors.New("view missing")}
	svc := NewService(store, newMemCache(), ServiceOptions{}, zerolog.Nop())

	_, err := svc.Top(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "fetch leaderboard")
}

func TestServiceDefaults(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil, ServiceOptions{}, zerolog.Nop())

	_, err := svc.Top(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultTopN, store.lastN)
}
