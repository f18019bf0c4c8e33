package apierror

import (
	"encoding/json"
	"net/http"
)

// Error represents a structured API error response.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ToJSON converts the error to the response envelope as JSON bytes.
func (e *Error) ToJSON() []byte {
	payload := map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    e.Code,
			"message": e.Message,
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

// NotAuthenticated creates a 401 error for requests with no identity.
func NotAuthenticated(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       "NOT_AUTHENTICATED",
		Message:    message,
	}
}

// NotFound creates a 404 error for an absent user, inventory or item.
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    message,
	}
}

// NoSelection creates a 400 error for operations with no inventory chosen.
func NoSelection(message string) *Error {
	if message == "" {
		message = "No shared inventory selected"
	}
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       "NO_SELECTION",
		Message:    message,
	}
}

// LookupFailed creates a 404 error for a failed email-to-identity resolution.
func LookupFailed(message string) *Error {
	if message == "" {
		message = "No user found with that email"
	}
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       "LOOKUP_FAILED",
		Message:    message,
	}
}

// StoreWriteFailed creates a 500 error passing through a store failure.
func StoreWriteFailed(message string) *Error {
	if message == "" {
		message = "Could not write to store"
	}
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "STORE_WRITE_FAILED",
		Message:    message,
	}
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
	}
}

// Forbidden creates a 403 Forbidden error.
func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return &Error{
		StatusCode: http.StatusForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
	}
}

// Conflict creates a 409 Conflict error.
func Conflict(message string) *Error {
	return &Error{
		StatusCode: http.StatusConflict,
		Code:       "CONFLICT",
		Message:    message,
	}
}

// InternalError creates a 500 Internal Server Error.
func InternalError(message string) *Error {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    message,
	}
}
