package notesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/notes/pkg/httpx"
)

// Error codes returned by the service.
const (
	ErrorCodeValidation      = "validation_error"
	ErrorCodeConflict        = "conflict"
	ErrorCodeInvalidCreds    = "invalid_credentials"
	ErrorCodeInvalidCSRF     = "invalid_csrf_token"
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeUnauthenticated = "unauthenticated"
	ErrorCodeInvalidToken    = "invalid_token"
	ErrorCodeSessionExpired  = "session_expired"
	ErrorCodeTooManyAttempts = "too_many_attempts"
	ErrorCodeRateLimited     = "rate_limit_exceeded"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeUserNotFound    = "user_not_found"
	ErrorCodeServerError     = "server_error"
)

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a service response.
func StatusCode(err error) int {
	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// parseErrorResponse turns a non-2xx response into an *httpx.APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &httpx.APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error,
			Message:    errResp.Message,
			RetryAfter: time.Duration(errResp.RetryAfter) * time.Second,
		}
	}

	// Fallback: create generic error from status code
	return &httpx.APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

// IsErrorCode reports whether err is a service error with the given code.
func IsErrorCode(err error, code string) bool {
	var apiErr *httpx.APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// RetryAfter returns how long the server asked the caller to wait, or 0.
func RetryAfter(err error) time.Duration {
	var apiErr *httpx.APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}
