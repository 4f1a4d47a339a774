package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format except /metrics and blob bodies.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// CreateTokenResponse is the response body for POST /v1/tokens.
type CreateTokenResponse struct {
	Token string `json:"token"`
}

// ReadTokenResponse is the response body for GET /v1/tokens/{token}.
type ReadTokenResponse struct {
	Valid bool `json:"valid"`
	Data  any  `json:"data,omitempty"`
}

// PutBlobResponse is the response body for PUT /v1/blobs.
type PutBlobResponse struct {
	Hash string `json:"hash"`
	Size int    `json:"size"`
}

// HealthResponse is the response body for /health and /ready.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Error  string `json:"error,omitempty"`
}
