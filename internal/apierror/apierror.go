// Package apierror holds the JSON error envelope every 4xx/5xx response uses.
// Clients branch on Code; Detail is for people and may change wording.
package apierror

// Code classifies a failed inventory request.
type Code string

const (
	// CodeDuplicateEvent: a batch, movement, sale or catalog id was reused.
	CodeDuplicateEvent Code = "duplicate_event"
	// CodeUnknownReference: the request names a product, batch or location
	// that is not in the catalog. Nothing was recorded.
	CodeUnknownReference Code = "unknown_reference"
	CodeStoreNotFound    Code = "store_not_found"
	CodeInvalidInput     Code = "invalid_input"
	CodeValidation       Code = "validation_failed"
	CodeUnauthorized     Code = "unauthorized"
)

// APIError is the canonical error envelope. Code is omitted for generic
// transport errors (auth, rate limits, panics).
type APIError struct {
	Code   Code   `json:"code,omitempty"`
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Coded builds an envelope carrying a machine readable code.
func Coded(code Code, msg string) *APIError {
	return &APIError{Code: code, Detail: msg}
}

// ValidationError reports request fields that failed their validate tags,
// keyed by JSON field name.
type ValidationError struct {
	Code   Code              `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Detail: "validation failed", Fields: fields}
}
