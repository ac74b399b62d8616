package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Aminem-99/quiz-backend/internal/leaderboard"
	"github.com/Aminem-99/quiz-backend/internal/match"
	"github.com/Aminem-99/quiz-backend/internal/quiz"
	"github.com/Aminem-99/quiz-backend/internal/score"
	httperrors "github.com/Aminem-99/quiz-backend/pkg/http/errors"
)

// QuizResolver serves solo quiz requests (implemented by quiz.Service).
type QuizResolver interface {
	Resolve(ctx context.Context, key quiz.FilterKey) (quiz.Quiz, error)
}

// MatchEnsurer serves multiplayer requests (implemented by
// match.Coordinator).
type MatchEnsurer interface {
	EnsureQuiz(ctx context.Context, matchID uuid.UUID) (quiz.Quiz, error)
}

// ScoreSubmitter grades and stores submissions (implemented by
// score.Service).
type ScoreSubmitter interface {
	Submit(ctx context.Context, sub score.Submission) (score.Result, error)
}

// LeaderboardReader returns the current top entries (implemented by
// leaderboard.Service).
type LeaderboardReader interface {
	Top(ctx context.Context) ([]leaderboard.Entry, error)
}

// Handlers exposes the public quiz API.
type Handlers struct {
	quizzes QuizResolver
	matches MatchEnsurer
	scores  ScoreSubmitter
	boards  LeaderboardReader
	logger  zerolog.Logger
}

func NewHandlers(quizzes QuizResolver, matches MatchEnsurer, scores ScoreSubmitter, boards LeaderboardReader, logger zerolog.Logger) *Handlers {
	return &Handlers{
		quizzes: quizzes,
		matches: matches,
		scores:  scores,
		boards:  boards,
		logger:  logger.With().Str("component", "httpapi").Logger(),
	}
}

// HandleGenerateQuiz handles POST /api/generate-quiz. Requests carrying a
// matchId go through the match coordinator; everything else resolves
// through the diversity cache. The success body is the bare quiz array.
func (h *Handlers) HandleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid JSON payload")
		return
	}
	if req.Difficulty == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "difficulty is required", "difficulty")
		return
	}
	if req.Category == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "category is required", "category")
		return
	}

	var (
		result quiz.Quiz
		err    error
	)
	if req.MatchID != "" {
		matchID, parseErr := uuid.Parse(req.MatchID)
		if parseErr != nil {
			httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "match not found")
			return
		}
		result, err = h.matches.EnsureQuiz(r.Context(), matchID)
	} else {
		result, err = h.quizzes.Resolve(r.Context(), req.filterKey())
	}
	if err != nil {
		h.respondGenerateError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) respondGenerateError(w http.ResponseWriter, err error) {
	var (
		parseFailure *quiz.ParseFailure
		schemaErr    *quiz.SchemaViolation
		providerErr  *quiz.ProviderError
	)
	switch {
	case errors.Is(err, match.ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "match not found")
	case errors.Is(err, match.ErrNotReady):
		httperrors.RespondConflict(w, httperrors.ErrCodeConflict, "match is not in a generable state")
	case errors.Is(err, match.ErrGenerationInconsistent):
		h.logger.Error().Err(err).Msg("match generation inconsistency")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeGenerationRace, err.Error())
	case errors.As(err, &providerErr):
		h.logger.Error().Err(err).Msg("provider call failed")
		httperrors.RespondErrorWithDetails(w, http.StatusInternalServerError,
			httperrors.ErrCodeProviderFailed, "failed to call completion provider",
			map[string]interface{}{"details": providerErr.Err.Error()})
	case errors.As(err, &parseFailure):
		h.logger.Error().Err(err).Msg("model response unparseable")
		httperrors.RespondErrorWithDetails(w, http.StatusInternalServerError,
			httperrors.ErrCodeParseFailed, "failed to parse provider response",
			map[string]interface{}{"raw": parseFailure.Raw})
	case errors.As(err, &schemaErr):
		h.logger.Error().Err(err).Msg("generated quiz failed validation")
		httperrors.RespondErrorWithDetails(w, http.StatusInternalServerError,
			httperrors.ErrCodeSchemaViolation, "generated quiz failed validation",
			map[string]interface{}{"question": schemaErr.Index, "rule": schemaErr.Rule})
	default:
		h.logger.Error().Err(err).Msg("quiz generation failed")
		httperrors.RespondInternalError(w, "failed to generate quiz questions")
	}
}

// HandleSubmitAnswers handles POST /api/submit-answers.
func (h *Handlers) HandleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid JSON payload")
		return
	}
	if field := req.missingField(); field != "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, field+" is required", field)
		return
	}

	result, err := h.scores.Submit(r.Context(), score.Submission{
		UserID:             req.UserID,
		Answers:            req.Answers,
		Quiz:               req.Quiz,
		Difficulty:         req.Difficulty,
		Category:           req.Category,
		Period:             req.Period,
		GeographicalSphere: req.GeographicalSphere,
		TimeTaken:          req.TimeTaken,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", req.UserID).Msg("score submission failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSubmitFailed, "failed to submit answers")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (r submitRequest) missingField() string {
	switch {
	case r.UserID == "":
		return "user_id"
	case len(r.Answers) == 0:
		return "answers"
	case len(r.Quiz) == 0:
		return "quiz"
	case r.Difficulty == "":
		return "difficulty"
	case r.Category == "":
		return "category"
	case r.Period == "":
		return "period"
	case r.GeographicalSphere == "":
		return "geographical_sphere"
	}
	return ""
}

// HandleLeaderboard handles GET /api/leaderboard.
func (h *Handlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.boards.Top(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("leaderboard fetch failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeLeaderboardFetch, "failed to fetch leaderboard")
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
