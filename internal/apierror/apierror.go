// Package apierror holds the JSON error envelopes returned by every 4xx/5xx
// response, so handlers never leak driver errors or stack traces to clients.
package apierror

// APIError is the envelope for all non-validation errors.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError lists the failing fields and the rule each one broke.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
