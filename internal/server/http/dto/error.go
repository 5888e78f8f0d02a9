package dto

// ErrorResponse describes a failed request. Field names the offending input
// of a validation failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
