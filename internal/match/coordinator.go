package match

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Aminem-99/quiz-backend/internal/quiz"
)

// Store is the persistence surface the coordinator needs (implemented by
// repository.MatchRepository). AttachQuiz must be a single atomic
// conditional update, not a read-then-write pair: it reports whether the
// row was still `waiting` with no payload at write time.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (Match, error)
	AttachQuiz(ctx context.Context, id uuid.UUID, q quiz.Quiz) (bool, error)
}

// Generator produces a fresh quiz for a filter key (implemented by
// quiz.Service.GenerateFresh).
type Generator interface {
	GenerateFresh(ctx context.Context, key quiz.FilterKey) (quiz.Quiz, error)
}

// Coordinator guarantees at most one committed quiz generation per match,
// no matter how many players trigger generation concurrently. Correctness
// rests entirely on the store's compare-and-set write; there is no lock.
type Coordinator struct {
	store     Store
	generator Generator
	logger    zerolog.Logger
}

func NewCoordinator(store Store, generator Generator, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		generator: generator,
		logger:    logger.With().Str("component", "match_coordinator").Logger(),
	}
}

// EnsureQuiz returns the quiz attached to the match, generating and
// attaching one when the match is still waiting. All concurrent callers
// observe the same payload: losers of the conditional write re-read and
// adopt the winner's quiz instead of clobbering it.
func (c *Coordinator) EnsureQuiz(ctx context.Context, matchID uuid.UUID) (quiz.Quiz, error) {
	m, err := c.store.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Quiz != nil {
		return m.Quiz, nil
	}
	if m.Status != StatusWaiting {
		return nil, ErrNotReady
	}

	generated, err := c.generator.GenerateFresh(ctx, m.Key)
	if err != nil {
		return nil, err
	}

	updated, err := c.store.AttachQuiz(ctx, matchID, generated)
	if err != nil {
		// Without a confirmed write this quiz cannot be reported as
		// "the" match quiz.
		return nil, fmt.Errorf("attach quiz to match %s: %w", matchID, err)
	}
	if updated {
		return generated, nil
	}

	// Lost the race: another caller committed first. Adopt their payload.
	c.logger.Info().Str("match_id", matchID.String()).Msg("conditional write lost, adopting committed quiz")
	m, err = c.store.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Quiz == nil {
		return nil, ErrGenerationInconsistent
	}
	return m.Quiz, nil
}
