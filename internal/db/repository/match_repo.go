package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Aminem-99/quiz-backend/internal/match"
	"github.com/Aminem-99/quiz-backend/internal/quiz"
)

// MatchRepository reads match rows and performs the conditional quiz
// attachment the coordinator depends on.
type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

var _ match.Store = (*MatchRepository)(nil)

// GetByID fetches a match row, returning match.ErrNotFound for unknown ids.
func (r *MatchRepository) GetByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	var (
		m        match.Match
		quizJSON []byte
	)
	err := r.db.QueryRow(ctx, `SELECT match_id, difficulty, category, period, geographical_sphere, entity, moment, episode, status, quiz_payload, created_at, updated_at
FROM matches WHERE match_id = $1`, id).Scan(
		&m.ID, &m.Key.Difficulty, &m.Key.Category, &m.Key.Period,
		&m.Key.GeographicalSphere, &m.Key.Entity, &m.Key.Moment,
		&m.Key.Episode, &m.Status, &quizJSON, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return match.Match{}, match.ErrNotFound
	}
	if err != nil {
		return match.Match{}, fmt.Errorf("query match: %w", err)
	}
	if quizJSON != nil {
		if err := json.Unmarshal(quizJSON, &m.Quiz); err != nil {
			return match.Match{}, fmt.Errorf("decode match quiz payload: %w", err)
		}
	}
	return m, nil
}

// AttachQuiz commits the quiz and the waiting -> ready transition in one
// atomic conditional update. The predicate is evaluated by Postgres at
// write time, so two concurrent callers can never both see one row
// updated.
func (r *MatchRepository) AttachQuiz(ctx context.Context, id uuid.UUID, q quiz.Quiz) (bool, error) {
	quizJSON, err := json.Marshal(q)
	if err != nil {
		return false, fmt.Errorf("encode quiz payload: %w", err)
	}
	tag, err := r.db.Exec(ctx, `UPDATE matches
SET quiz_payload = $2, status = 'ready', updated_at = now()
WHERE match_id = $1 AND status = 'waiting' AND quiz_payload IS NULL`,
		id, quizJSON)
	if err != nil {
		return false, fmt.Errorf("attach quiz: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
