// Package handlers defines the HTTP-layer error codes.
//
// Codes are lowercase snake_case and stable; clients branch on them instead
// of parsing messages. Generic codes mirror HTTP status semantics, the rest
// name the pipeline step that failed.

package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeTooLarge         = "payload_too_large"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeNotConfigured    = "not_configured"
	ErrCodeGenerationFailed = "generation_failed"
	ErrCodeDiagnostics      = "diagnostics_unavailable"
)

// Client-facing messages. Upstream detail is logged, never returned.
const (
	msgInvalidJSON        = "request body must be a JSON object"
	msgInvalidForm        = "could not parse form data"
	msgMissingDescription = "Missing 'ayurvedic_input' in request." // wording older clients match on
	msgNotConfigured      = "service is not configured"
	msgInternal           = "internal server error"
	msgPlanGenerated      = "Diet plan generated successfully"
	msgPlanDispatched     = "Diet plan generated successfully and is being sent by e-mail"
)
