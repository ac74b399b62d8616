package quiz

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a quiz author for every generation call.
const SystemPrompt = "You are a history expert who creates educational quiz questions."

const promptFormat = `[
  {
    "question": "Question text",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "answer": ["Correct option 1", "Correct option 2"],
    "explanation": "Explanation of the correct answer",
    "multi": true
  }
]`

// BuildPrompt renders the user message for a filter key. Optional key
// fields are spelled out as "not specified" so the model never invents a
// constraint the caller did not ask for.
func BuildPrompt(key FilterKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d multiple-choice questions as if you were a teacher of the following subject: %s.\n", QuestionCount, key.Category)
	fmt.Fprintf(&b, "Quiz subject: %s\n", key.Category)
	fmt.Fprintf(&b, "Period: %s\n", orUnspecified(key.Period))
	fmt.Fprintf(&b, "Episode: %s\n", orUnspecified(key.Episode))
	fmt.Fprintf(&b, "Key moment: %s\n", orUnspecified(key.Moment))
	fmt.Fprintf(&b, "Geographical sphere: %s\n", orUnspecified(key.GeographicalSphere))
	fmt.Fprintf(&b, "Country/Region: %s\n", orUnspecified(key.Entity))
	fmt.Fprintf(&b, "Mode: %s\n", orDefault(key.Mode, "standard"))
	b.WriteString("Some questions must have several correct answers (minimum 1, maximum 3); list them in an array \"answer\": [\"Correct option 1\", \"Correct option 2\"].\n")
	b.WriteString("Also add a property \"multi\": true when the question has several correct answers, otherwise \"multi\": false.\n")
	fmt.Fprintf(&b, "Each question must offer %d distinct answer options.\n", OptionCount)
	b.WriteString("Return the result as JSON, as a list of objects:\n")
	b.WriteString(promptFormat)
	b.WriteString("\nIf a question has a single correct answer, \"answer\" must be an array with one element and \"multi\": false.\n")
	fmt.Fprintf(&b, "The difficulty of the questions is %s. Reply with the JSON only.", key.Difficulty)
	return b.String()
}

func orUnspecified(v string) string {
	return orDefault(v, "not specified")
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
