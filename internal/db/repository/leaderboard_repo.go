package repository

import (
	"context"
	"fmt"

	"github.com/Aminem-99/quiz-backend/internal/leaderboard"
)

// LeaderboardRepository reads the aggregated quiz_leaderboard view.
type LeaderboardRepository struct {
	db DBTX
}

func NewLeaderboardRepository(db DBTX) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

var _ leaderboard.Store = (*LeaderboardRepository)(nil)

func (r *LeaderboardRepository) TopScores(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, username, total_score, highest_score, average_score, last_quiz_date, avatar_url
FROM quiz_leaderboard ORDER BY total_score DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query quiz_leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.UserID, &e.Username, &e.TotalScore, &e.HighestScore,
			&e.AverageScore, &e.LastQuizDate, &e.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan quiz_leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
