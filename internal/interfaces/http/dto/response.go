package dto

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return NewErrorResponseWithRequestID(code, message, "")
}

// NewErrorResponseWithRequestID creates an error response carrying the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// BillsQuery are the query parameters of the bill listing endpoints
type BillsQuery struct {
	// Locale overrides Accept-Language for status labels
	Locale string `form:"locale" binding:"omitempty,oneof=fr en"`
}

// PreviewQuery is the query of the justification preview endpoint
type PreviewQuery struct {
	URL string `form:"url" binding:"omitempty,max=2048"`
}

// CreateSessionRequest opens a session from an issued token
type CreateSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// LoginForm is the sign-in form of the login page
type LoginForm struct {
	Token string `form:"token" binding:"required"`
}

// SessionResponse describes the signed-in user
type SessionResponse struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}
