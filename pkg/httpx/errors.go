package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// APIError is the JSON error body every endpoint returns.
type APIError struct {
	StatusCode int           `json:"-"`
	Code       string        `json:"error"`
	Message    string        `json:"message"`
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError is a small constructor for the common case.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{StatusCode: status, Code: code, Message: message}
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, never below 1.
func (e *APIError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// WriteError writes the error as JSON. A 429 also gets a Retry-After header
// and a retryAfter field in the body.
func (e *APIError) WriteError(w http.ResponseWriter) {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status == http.StatusTooManyRequests {
		secs := e.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		WriteJSON(w, status, struct {
			Code       string `json:"error"`
			Message    string `json:"message"`
			RetryAfter int    `json:"retryAfter"`
		}{e.Code, e.Message, secs})
		return
	}

	WriteJSON(w, status, e)
}

// Common errors shared by the middlewares in this package.
var (
	ErrServer = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       "server_error",
		Message:    "Server Error",
	}
	ErrHeaderMissing = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       "invalid_request",
		Message:    "Authorization header is missing",
	}
	ErrNoToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       "unauthenticated",
		Message:    "Access denied. No token provided.",
	}
	ErrInvalidToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       "invalid_token",
		Message:    "Invalid token",
	}
)
