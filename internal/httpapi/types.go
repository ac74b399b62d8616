package httpapi

import "github.com/Aminem-99/quiz-backend/internal/quiz"

// generateRequest mirrors the wire shape of POST /api/generate-quiz.
// ID_Name is a legacy alias for entity kept for older clients.
type generateRequest struct {
	Difficulty         string `json:"difficulty"`
	Category           string `json:"category"`
	Period             string `json:"period"`
	GeographicalSphere string `json:"geographical_sphere"`
	Entity             string `json:"entity"`
	IDName             string `json:"ID_Name"`
	Moment             string `json:"moment"`
	Episode            string `json:"episode"`
	Mode               string `json:"mode"`
	MatchID            string `json:"matchId"`
}

func (r generateRequest) filterKey() quiz.FilterKey {
	entity := r.Entity
	if entity == "" {
		entity = r.IDName
	}
	return quiz.FilterKey{
		Difficulty:         r.Difficulty,
		Category:           r.Category,
		Period:             r.Period,
		GeographicalSphere: r.GeographicalSphere,
		Entity:             entity,
		Moment:             r.Moment,
		Episode:            r.Episode,
		Mode:               r.Mode,
	}
}

// submitRequest mirrors the wire shape of POST /api/submit-answers.
type submitRequest struct {
	UserID             string            `json:"user_id"`
	Answers            []quiz.AnswerList `json:"answers"`
	Quiz               quiz.Quiz         `json:"quiz"`
	Difficulty         string            `json:"difficulty"`
	Category           string            `json:"category"`
	Period             string            `json:"period"`
	GeographicalSphere string            `json:"geographical_sphere"`
	TimeTaken          *int              `json:"time_taken"`
}
