package dto

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Error codes carried in ErrorResponse.Error
const (
	ErrInvalidRequest = "invalid_request"
	ErrValidation     = "validation_error"
	ErrInFlight       = "in_flight"
	ErrUpstream       = "upstream_error"
)
