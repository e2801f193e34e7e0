package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

const msgNoteNotFound = "Note not found"

// toAPIError maps service and middleware errors onto the response taxonomy.
// Anything unrecognised is a 500 whose detail stays in the logs.
func toAPIError(err error) *httpx.APIError {
	var (
		validation *service.ValidationError
		conflict   *service.ConflictError
		unauth     *service.UnauthenticatedError
		throttled  *service.TooManyAttemptsError
		apiErr     *httpx.APIError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &validation):
		return httpx.NewAPIError(http.StatusBadRequest, "validation_error", validation.Message)
	case errors.As(err, &conflict):
		return httpx.NewAPIError(http.StatusBadRequest, "conflict", conflict.Message)
	case errors.Is(err, service.ErrInvalidCredentials):
		return httpx.NewAPIError(http.StatusBadRequest, "invalid_credentials", service.MsgInvalidCredentials)
	case errors.Is(err, httpx.ErrCSRFMismatch):
		return httpx.ErrInvalidCSRF
	case errors.Is(err, httpx.ErrBadJSON):
		return httpx.NewAPIError(http.StatusBadRequest, "invalid_request", "Malformed JSON body")
	case errors.As(err, &throttled):
		return &httpx.APIError{
			StatusCode: http.StatusTooManyRequests,
			Code:       "too_many_attempts",
			Message:    service.MsgTooManyAttempts,
			RetryAfter: throttled.RetryAfter,
		}
	case errors.As(err, &unauth):
		return httpx.NewAPIError(http.StatusUnauthorized, "unauthenticated", unauth.Message)
	case errors.Is(err, service.ErrSessionExpired):
		return httpx.NewAPIError(http.StatusUnauthorized, "session_expired", service.MsgSessionExpired)
	case errors.Is(err, service.ErrUserNotFound):
		return httpx.NewAPIError(http.StatusUnauthorized, "user_not_found", service.MsgUserNotFound)
	case errors.Is(err, service.ErrNotFound):
		return httpx.NewAPIError(http.StatusNotFound, "not_found", msgNoteNotFound)
	default:
		return httpx.ErrServer
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	apiErr.WriteError(w)
}
