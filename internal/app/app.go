package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Aminem-99/quiz-backend/internal/config"
	"github.com/Aminem-99/quiz-backend/internal/db/repository"
	"github.com/Aminem-99/quiz-backend/internal/httpapi"
	"github.com/Aminem-99/quiz-backend/internal/leaderboard"
	"github.com/Aminem-99/quiz-backend/internal/llm"
	"github.com/Aminem-99/quiz-backend/internal/logging"
	"github.com/Aminem-99/quiz-backend/internal/match"
	"github.com/Aminem-99/quiz-backend/internal/quiz"
	"github.com/Aminem-99/quiz-backend/internal/score"
	"github.com/Aminem-99/quiz-backend/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis, the completion client
// and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	quizCacheRepo := repository.NewQuizCacheRepository(pool)
	matchRepo := repository.NewMatchRepository(pool)
	scoreRepo := repository.NewScoreRepository(pool)
	leaderboardRepo := repository.NewLeaderboardRepository(pool)

	completionClient := llm.NewClient(llm.Config{
		APIKey:      cfg.DeepSeek.APIKey,
		BaseURL:     cfg.DeepSeek.BaseURL,
		Model:       cfg.DeepSeek.Model,
		Temperature: cfg.DeepSeek.Temperature,
		Timeout:     cfg.DeepSeek.Timeout,
	}, logger)

	quizSvc := quiz.NewService(quizCacheRepo, completionClient, quiz.ServiceOptions{
		CacheThreshold: cfg.Quiz.CacheThreshold,
	}, logger)
	coordinator := match.NewCoordinator(matchRepo, quizSvc, logger)
	scoreSvc := score.NewService(scoreRepo, logger)
	leaderboardSvc := leaderboard.NewService(
		leaderboardRepo,
		leaderboard.NewRedisCache(redisClient),
		leaderboard.ServiceOptions{
			CacheTTL: cfg.Leaderboard.CacheTTL,
			TopN:     cfg.Leaderboard.TopN,
		},
		logger,
	)

	apiHandlers := httpapi.NewHandlers(quizSvc, coordinator, scoreSvc, leaderboardSvc, logger)
	apiServer := server.NewHTTPServer(cfg, logger, apiHandlers)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
