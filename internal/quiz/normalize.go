package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// parseStep is one fallible attempt at turning model text into JSON. Steps
// are pure and tried strictly in order; a step runs only when every step
// before it failed.
type parseStep struct {
	name string
	run  func(string) (json.RawMessage, error)
}

var parseSteps = []parseStep{
	{name: "direct", run: parseDirect},
	{name: "unfenced", run: parseUnfenced},
	{name: "repaired", run: parseRepaired},
	{name: "extracted", run: parseExtracted},
}

// Normalize converts a raw model reply into the JSON value it carries,
// tolerating markdown fences, trailing prose, and near-valid JSON. When
// every step fails it returns a *ParseFailure carrying the original text.
func Normalize(raw string) (json.RawMessage, error) {
	var stepErrs []error
	for _, step := range parseSteps {
		out, err := step.run(raw)
		if err == nil {
			return out, nil
		}
		stepErrs = append(stepErrs, fmt.Errorf("%s: %w", step.name, err))
	}
	return nil, &ParseFailure{Raw: raw, Err: errors.Join(stepErrs...)}
}

func parseDirect(raw string) (json.RawMessage, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, errors.New("empty response")
	}
	if !json.Valid([]byte(text)) {
		return nil, errors.New("not valid JSON")
	}
	return json.RawMessage(text), nil
}

func parseUnfenced(raw string) (json.RawMessage, error) {
	return parseDirect(stripFences(raw))
}

func parseRepaired(raw string) (json.RawMessage, error) {
	return parseDirect(repairJSON(stripFences(raw)))
}

func parseExtracted(raw string) (json.RawMessage, error) {
	arr, ok := extractArray(stripFences(raw))
	if !ok {
		return nil, errors.New("no balanced array literal found")
	}
	return parseDirect(arr)
}

// stripFences removes markdown code-block markers and their optional
// language tags, keeping only the fenced body when one is present.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.Contains(text, "```") {
		return text
	}
	if start := strings.Index(text, "```"); start >= 0 {
		body := text[start+3:]
		// skip a language tag such as "json" on the opening fence line
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			firstLine := strings.TrimSpace(body[:nl])
			if firstLine == "" || isLanguageTag(firstLine) {
				body = body[nl+1:]
			}
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		return strings.TrimSpace(body)
	}
	return text
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) <= 10
}

// repairJSON performs a best-effort structural repair of near-valid JSON:
// bare object keys are quoted, trailing commas dropped, an unterminated
// string closed, and missing closing brackets appended. The result still
// has to pass a strict parse; repair never invents content.
func repairJSON(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	b.Grow(len(text) + 8)
	var stack []byte
	inString := false
	var lastSig byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(text) {
				i++
				b.WriteByte(text[i])
				continue
			}
			if c == '"' {
				inString = false
				lastSig = c
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			b.WriteByte(c)
		case '{', '[':
			stack = append(stack, c)
			b.WriteByte(c)
			lastSig = c
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			b.WriteByte(c)
			lastSig = c
		case ',':
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue // trailing comma
			}
			b.WriteByte(c)
			lastSig = c
		default:
			if isIdentStart(c) && len(stack) > 0 && stack[len(stack)-1] == '{' && (lastSig == '{' || lastSig == ',') {
				j := i
				for j < len(text) && isIdentChar(text[j]) {
					j++
				}
				k := j
				for k < len(text) && isSpace(text[k]) {
					k++
				}
				if k < len(text) && text[k] == ':' {
					b.WriteByte('"')
					b.WriteString(text[i:j])
					b.WriteByte('"')
					lastSig = '"'
					i = j - 1
					continue
				}
			}
			b.WriteByte(c)
			if !isSpace(c) {
				lastSig = c
			}
		}
	}
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// extractArray returns the first balanced top-level array literal in text,
// respecting string boundaries and escapes.
func extractArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			if c == '\\' {
				i++
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
