// Package dto holds the HTTP envelope shared by every endpoint.
package dto

// Response is the envelope of every API answer
type Response struct {
	Status bool       `json:"Status"`
	Errors *ErrorInfo `json:"Errors,omitempty"`
	Data   any        `json:"Data,omitempty"`
	Meta   *Meta      `json:"Meta,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// Meta carries pagination of list answers
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Status: true, Data: data}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Status: true,
		Data:   data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{Errors: &ErrorInfo{Code: code, Message: message}}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{Errors: &ErrorInfo{Code: code, Message: message, RequestID: requestID}}
}

// NewValidationErrorResponse creates a VALIDATION_ERROR response listing the
// offending fields, e.g. "email: Invalid email format"
func NewValidationErrorResponse(message, requestID string, details []string) Response {
	return Response{Errors: &ErrorInfo{
		Code:      ErrCodeValidation,
		Message:   message,
		Details:   details,
		RequestID: requestID,
	}}
}
