package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_USER", "quiz")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "quizdb")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "quiz-backend", cfg.Name)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0:3001", cfg.HTTPAddr)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.DeepSeek.BaseURL)
	assert.Equal(t, "deepseek-chat", cfg.DeepSeek.Model)
	assert.InDelta(t, 0.7, cfg.DeepSeek.Temperature, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.DeepSeek.Timeout)
	assert.Equal(t, 5, cfg.Quiz.CacheThreshold)
	assert.Equal(t, 10, cfg.Leaderboard.TopN)
	assert.Equal(t, 30*time.Second, cfg.Leaderboard.CacheTTL)
	assert.True(t, cfg.CORS.AllowCredentials)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:8080")
	t.Setenv("QUIZ_CACHE_THRESHOLD", "3")
	t.Setenv("LEADERBOARD_TOP", "25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://quiz.example.com")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.Quiz.CacheThreshold)
	assert.Equal(t, 25, cfg.Leaderboard.TopN)
	assert.Equal(t, []string{"https://quiz.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEEPSEEK_API_KEY", "")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")
}
