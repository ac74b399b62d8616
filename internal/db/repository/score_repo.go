package repository

import (
	"context"
	"fmt"

	"github.com/Aminem-99/quiz-backend/internal/score"
)

// ScoreRepository persists graded quiz results.
type ScoreRepository struct {
	db DBTX
}

func NewScoreRepository(db DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

var _ score.Store = (*ScoreRepository)(nil)

func (r *ScoreRepository) Insert(ctx context.Context, rec score.Record) (score.Record, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO quiz_scores
(user_id, score, difficulty, category, period, geographical_sphere, total_questions, time_taken, correct_answers)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING score_id, created_at`,
		rec.UserID, rec.Score, rec.Difficulty, rec.Category, rec.Period,
		rec.GeographicalSphere, rec.TotalQuestions, rec.TimeTaken, rec.CorrectAnswers,
	).Scan(&rec.ScoreID, &rec.CreatedAt)
	if err != nil {
		return score.Record{}, fmt.Errorf("insert quiz_scores: %w", err)
	}
	return rec, nil
}
