package notesdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	// Error is a stable machine-readable code (e.g., "invalid_token")
	Error string `json:"error"`

	// Message is the human-readable text the browser client displays
	Message string `json:"message"`

	// RetryAfter is set on 429 responses, in whole seconds
	RetryAfter int `json:"retryAfter,omitempty"`
}

// MessageResponse is returned by endpoints that only acknowledge an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Auth Types
// ============================================================================

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// LoginResponse is returned on a successful login. The token is also set in
// the session cookie.
type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// CSRFTokenResponse carries the value to echo in the X-CSRF-Token header.
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// VerifyResponse is returned by GET /api/auth/verify.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// ProtectedResponse is returned by GET /api/auth/protected.
type ProtectedResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// ============================================================================
// Note Types
// ============================================================================

// NoteRequest is the body for creating or replacing a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Note is a note as returned by the API.
type Note struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	LastEdited time.Time `json:"last_edited"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
