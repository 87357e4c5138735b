package dto

import "time"

// APIResponse is the envelope for every successful response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"RSVP created"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewMessageResponse wraps data in a success envelope with a message
func NewMessageResponse(message string, data interface{}) APIResponse {
	resp := NewSuccessResponse(data)
	resp.Message = message
	return resp
}
