// Package apierror provides the standardized error envelope for the API.
// All errors returned to clients go through this package to ensure
// consistency and to prevent leaking internal details (stack traces, raw
// driver errors, etc.). Every body carries a "success" boolean so clients
// can branch without inspecting HTTP status codes.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx responses.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func New(msg string) *APIError {
	return &APIError{Success: false, Message: msg}
}

// ValidationError wraps multiple per-field messages.
type ValidationError struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Success: false, Message: "Validation failed", Errors: fields}
}

// ConflictError names the unique field whose value already exists, so the
// client can render "you already reviewed this product" instead of a
// generic error.
type ConflictError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
}

func NewConflict(msg, field, value string) *ConflictError {
	return &ConflictError{Success: false, Message: msg, Field: field, Value: value}
}
