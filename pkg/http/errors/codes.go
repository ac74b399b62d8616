package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Quiz generation errors
	ErrCodeProviderFailed   = "provider_failed"
	ErrCodeParseFailed      = "parse_failed"
	ErrCodeSchemaViolation  = "schema_violation"
	ErrCodeGenerationRace   = "generation_inconsistency"
	ErrCodeSubmitFailed     = "submit_failed"
	ErrCodeLeaderboardFetch = "leaderboard_fetch_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
