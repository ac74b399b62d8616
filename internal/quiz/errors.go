package quiz

import "fmt"

// ParseFailure reports that every normalization step was exhausted without
// producing parseable JSON. Raw carries the original model text for
// diagnostics; no partial or guessed output is ever returned.
type ParseFailure struct {
	Raw string
	Err error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("parse model response: %v", e.Err)
}

func (e *ParseFailure) Unwrap() error { return e.Err }

// SchemaViolation reports the first question that broke a validation rule.
// Index is -1 when the violation concerns the quiz as a whole.
type SchemaViolation struct {
	Index int
	Rule  string
}

func (e *SchemaViolation) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("quiz schema violation: %s", e.Rule)
	}
	return fmt.Sprintf("quiz schema violation at question %d: %s", e.Index, e.Rule)
}

// ProviderError wraps a failed or empty completion from the LLM provider.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
