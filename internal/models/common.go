package models

// ErrorDetail provides a structured way to represent an error.
type ErrorDetail struct {
	// Code is an application-specific error code. Always non-zero.
	Code int `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Data holds additional context about the error, like the path or the
	// operation being performed.
	Data interface{} `json:"data,omitempty"`
}

// ErrorResponse wraps an ErrorDetail for HTTP error bodies.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
