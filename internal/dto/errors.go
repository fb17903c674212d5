package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse carries a bare human-readable message, used where the API
// answers with `{"message": ...}` instead of an error object
type MessageResponse struct {
	Message string `json:"message"`
}
