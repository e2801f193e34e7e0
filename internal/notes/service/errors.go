package service

import (
	"errors"
	"fmt"
	"time"
)

// User-facing messages. They cross the HTTP boundary verbatim.
const (
	MsgFieldsRequired      = "All fields are required and cannot be empty"
	MsgLoginFieldsRequired = "All fields are required"
	MsgInvalidEmail        = "Invalid email format"
	MsgPasswordPolicy      = "Password must be at least 8 characters long and contain: at least 1 uppercase letter, 1 lowercase letter, 1 number, and 1 special character (!@#$%^&*)"
	MsgPasswordTooLong     = "Password must be at most 72 bytes long"
	MsgUsernameTaken       = "Username already taken"
	MsgEmailTaken          = "Email already registered"
	MsgInvalidCredentials  = "Invalid username or password"
	MsgNoteFieldsRequired  = "Title and content are required"
	MsgTooManyAttempts     = "Too many login attempts. Please try again after 15 minutes."
	MsgTokenRevoked        = "Token is invalidated"
	MsgSessionExpired      = "Session expired"
	MsgUserNotFound        = "User not found"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrNotFound           = errors.New("not_found")
)

// ValidationError is malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "validation: " + e.Message }

// ConflictError is a duplicate username or email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return "conflict: " + e.Message }

// UnauthenticatedError rejects a request that carried a token we will not
// honour, such as a revoked one.
type UnauthenticatedError struct {
	Message string
}

func (e *UnauthenticatedError) Error() string { return "unauthenticated: " + e.Message }

// TooManyAttemptsError is returned by the login throttle.
type TooManyAttemptsError struct {
	RetryAfter time.Duration
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("too many attempts, retry after %s", e.RetryAfter)
}
