package match

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Aminem-99/quiz-backend/internal/quiz"
)

// Match statuses relevant to quiz generation. The coordinator owns exactly
// one transition, waiting -> ready; everything after that belongs to the
// gameplay subsystem.
const (
	StatusWaiting = "waiting"
	StatusReady   = "ready"
	StatusStarted = "started"
)

// Match is the shared multiplayer row a quiz is permanently attached to.
// Quiz is nil until the attach transition commits; once set it is
// immutable.
type Match struct {
	ID        uuid.UUID
	Key       quiz.FilterKey
	Status    string
	Quiz      quiz.Quiz
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	// ErrNotFound signals an unknown match id.
	ErrNotFound = errors.New("match not found")
	// ErrNotReady signals a match that moved past the generable window
	// before a quiz could be attached.
	ErrNotReady = errors.New("match not in a generable state")
	// ErrGenerationInconsistent signals a lost conditional write followed
	// by a re-read that still found no payload. Under correct datastore
	// semantics this cannot happen; it is surfaced, never retried.
	ErrGenerationInconsistent = errors.New("concurrent generation left match without a quiz")
)
