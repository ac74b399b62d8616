package score

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aminem-99/quiz-backend/internal/quiz"
)

// Record is a persisted quiz result row.
type Record struct {
	ScoreID            int64     `json:"score_id"`
	UserID             string    `json:"user_id"`
	Score              int       `json:"score"`
	Difficulty         string    `json:"difficulty"`
	Category           string    `json:"category"`
	Period             string    `json:"period"`
	GeographicalSphere string    `json:"geographical_sphere"`
	TotalQuestions     int       `json:"total_questions"`
	TimeTaken          *int      `json:"time_taken,omitempty"`
	CorrectAnswers     int       `json:"correct_answers"`
	CreatedAt          time.Time `json:"created_at"`
}

// Store persists score records (implemented by repository.ScoreRepository).
type Store interface {
	Insert(ctx context.Context, rec Record) (Record, error)
}

// Correction explains how a single question was graded.
type Correction struct {
	Question      string   `json:"question"`
	UserAnswer    []string `json:"user_answer"`
	CorrectAnswer []string `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
	Explanation   string   `json:"explanation"`
}

// Submission is a graded-and-stored request.
type Submission struct {
	UserID             string
	Answers            []quiz.AnswerList
	Quiz               quiz.Quiz
	Difficulty         string
	Category           string
	Period             string
	GeographicalSphere string
	TimeTaken          *int
}

// Result carries the grading outcome and the stored row back to the caller.
type Result struct {
	Corrections []Correction `json:"corrections"`
	Score       int          `json:"score"`
	Record      Record       `json:"data"`
}

// Service grades submissions against the quiz's answer sets and records
// the outcome. Grading is set equality: a question is correct only when
// the selected options match the answer set exactly.
type Service struct {
	store  Store
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "score_service").Logger(),
	}
}

func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	corrections := make([]Correction, 0, len(sub.Quiz))
	correct := 0
	for i, q := range sub.Quiz {
		var given quiz.AnswerList
		if i < len(sub.Answers) {
			given = sub.Answers[i]
		}
		ok := sameAnswerSet(given, q.Answer)
		if ok {
			correct++
		}
		corrections = append(corrections, Correction{
			Question:      q.Question,
			UserAnswer:    given,
			CorrectAnswer: q.Answer,
			IsCorrect:     ok,
			Explanation:   q.Explanation,
		})
	}

	rec, err := s.store.Insert(ctx, Record{
		UserID:             sub.UserID,
		Score:              correct,
		Difficulty:         sub.Difficulty,
		Category:           sub.Category,
		Period:             sub.Period,
		GeographicalSphere: sub.GeographicalSphere,
		TotalQuestions:     len(sub.Quiz),
		TimeTaken:          sub.TimeTaken,
		CorrectAnswers:     correct,
	})
	if err != nil {
		return Result{}, fmt.Errorf("store score: %w", err)
	}

	s.logger.Info().
		Str("user_id", sub.UserID).
		Int("score", correct).
		Int("total", len(sub.Quiz)).
		Msg("score recorded")

	return Result{Corrections: corrections, Score: correct, Record: rec}, nil
}

func sameAnswerSet(given, want []string) bool {
	if len(given) == 0 || len(given) != len(want) {
		return false
	}
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}
	for _, g := range given {
		if _, ok := set[g]; !ok {
			return false
		}
	}
	return true
}
