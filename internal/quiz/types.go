package quiz

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuestionCount is the number of questions a quiz must carry.
const QuestionCount = 5

// OptionCount is the number of answer options every question must offer.
const OptionCount = 4

// FilterKey identifies which quiz is being asked for. Difficulty and
// Category are always set; the optional fields narrow cache matches only
// when present — an empty field acts as a wildcard, not a null.
type FilterKey struct {
	Difficulty         string `json:"difficulty"`
	Category           string `json:"category"`
	Period             string `json:"period,omitempty"`
	GeographicalSphere string `json:"geographical_sphere,omitempty"`
	Entity             string `json:"entity,omitempty"`
	Moment             string `json:"moment,omitempty"`
	Episode            string `json:"episode,omitempty"`
	Mode               string `json:"mode,omitempty"`
}

// CacheTag renders the key's cache-identity fields for logs and metrics.
// Mode is deliberately excluded: it shapes the prompt, not cache identity.
func (k FilterKey) CacheTag() string {
	parts := []string{"difficulty=" + k.Difficulty, "category=" + k.Category}
	optional := map[string]string{
		"period":  k.Period,
		"sphere":  k.GeographicalSphere,
		"entity":  k.Entity,
		"moment":  k.Moment,
		"episode": k.Episode,
	}
	var keys []string
	for name, v := range optional {
		if v != "" {
			keys = append(keys, name+"="+v)
		}
	}
	sort.Strings(keys)
	return strings.Join(append(parts, keys...), "|")
}

// AnswerList decodes the "answer" field of a model reply, accepting either
// a JSON array of strings or a bare string (wrapped to a one-element list).
type AnswerList []string

func (a *AnswerList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*a = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*a = AnswerList{one}
	return nil
}

// Question is a single validated multiple-choice question.
type Question struct {
	Question    string     `json:"question"`
	Options     []string   `json:"options"`
	Answer      AnswerList `json:"answer"`
	Multi       bool       `json:"multi"`
	Explanation string     `json:"explanation"`
}

// Quiz is the ordered set of questions returned to a caller.
type Quiz []Question

// CachedQuiz pairs a FilterKey with a previously generated quiz. Rows are
// append-only: multiple generations coexist under one key for diversity.
type CachedQuiz struct {
	Key       FilterKey
	Quiz      Quiz
	CreatedAt time.Time
}
