package quiz

import (
	"encoding/json"
	"strings"
)

// Validate enforces the quiz schema on a normalized JSON value. Rules are
// checked in order and short-circuit on the first violation; the returned
// *SchemaViolation names the offending question index and rule. Validation
// is pure: no datastore or network access.
func Validate(raw json.RawMessage) (Quiz, error) {
	var probe []json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &SchemaViolation{Index: -1, Rule: "response must be a JSON array"}
	}
	if len(probe) != QuestionCount {
		return nil, &SchemaViolation{Index: -1, Rule: "quiz must contain exactly 5 questions"}
	}

	questions := make(Quiz, 0, len(probe))
	for i, item := range probe {
		var q Question
		if err := json.Unmarshal(item, &q); err != nil {
			return nil, &SchemaViolation{Index: i, Rule: "question must be an object with string fields"}
		}
		if rule := checkQuestion(q); rule != "" {
			return nil, &SchemaViolation{Index: i, Rule: rule}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func checkQuestion(q Question) string {
	if strings.TrimSpace(q.Question) == "" {
		return "question text is empty"
	}
	if len(q.Options) != OptionCount {
		return "options must contain exactly 4 entries"
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return "options must be non-empty strings"
		}
		if _, dup := seen[opt]; dup {
			return "options must be distinct"
		}
		seen[opt] = struct{}{}
	}
	if len(q.Answer) == 0 {
		return "answer must contain at least one entry"
	}
	if len(q.Answer) > OptionCount {
		return "answer must not exceed the option count"
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return "explanation is empty"
	}
	if q.Multi != (len(q.Answer) > 1) {
		return "multi flag inconsistent with answer count"
	}
	for _, ans := range q.Answer {
		if _, ok := seen[ans]; !ok {
			return "answer not found among options"
		}
	}
	return ""
}
