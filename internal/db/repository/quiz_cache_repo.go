package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aminem-99/quiz-backend/internal/quiz"
)

// QuizCacheRepository persists generated quizzes for the diversity cache.
// Rows are append-only and never mutated or deleted.
type QuizCacheRepository struct {
	db DBTX
}

func NewQuizCacheRepository(db DBTX) *QuizCacheRepository {
	return &QuizCacheRepository{db: db}
}

var _ quiz.CacheStore = (*QuizCacheRepository)(nil)

// ListByFilter returns cached quizzes matching the key, newest first.
// Present optional fields narrow the match; absent fields are wildcards,
// so only non-empty fields contribute a predicate.
func (r *QuizCacheRepository) ListByFilter(ctx context.Context, key quiz.FilterKey) ([]quiz.CachedQuiz, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT difficulty, category, period, geographical_sphere, entity, moment, episode, quiz_json, created_at
FROM quiz_cache WHERE difficulty = $1 AND category = $2`)
	args := []any{key.Difficulty, key.Category}

	optional := []struct {
		column string
		value  string
	}{
		{"period", key.Period},
		{"geographical_sphere", key.GeographicalSphere},
		{"entity", key.Entity},
		{"moment", key.Moment},
		{"episode", key.Episode},
	}
	for _, f := range optional {
		if f.value == "" {
			continue
		}
		args = append(args, f.value)
		fmt.Fprintf(&query, " AND %s = $%d", f.column, len(args))
	}
	query.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz_cache: %w", err)
	}
	defer rows.Close()

	var cached []quiz.CachedQuiz
	for rows.Next() {
		var (
			row      quiz.CachedQuiz
			quizJSON []byte
		)
		if err := rows.Scan(
			&row.Key.Difficulty, &row.Key.Category, &row.Key.Period,
			&row.Key.GeographicalSphere, &row.Key.Entity, &row.Key.Moment,
			&row.Key.Episode, &quizJSON, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz_cache row: %w", err)
		}
		if err := json.Unmarshal(quizJSON, &row.Quiz); err != nil {
			return nil, fmt.Errorf("decode cached quiz: %w", err)
		}
		cached = append(cached, row)
	}
	return cached, rows.Err()
}

// Insert appends a new generation under the key.
func (r *QuizCacheRepository) Insert(ctx context.Context, key quiz.FilterKey, q quiz.Quiz) error {
	quizJSON, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO quiz_cache
(difficulty, category, period, geographical_sphere, entity, moment, episode, quiz_json)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.Difficulty, key.Category, key.Period, key.GeographicalSphere,
		key.Entity, key.Moment, key.Episode, quizJSON)
	if err != nil {
		return fmt.Errorf("insert quiz_cache: %w", err)
	}
	return nil
}
