package notesdk

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// Session is a logged-in user. It sends its access token as a bearer header
// and shares the client's cookie jar and CSRF token.
type Session struct {
	client *SDKClient

	mu    sync.RWMutex
	token string
	user  UserSummary
}

// Token returns the access token issued at login.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the user summary returned at login.
func (s *Session) User() UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Verify asks the server whether the token is still accepted.
func (s *Session) Verify(ctx context.Context) (bool, error) {
	var out VerifyResponse
	if err := s.doAuthRequest(ctx, http.MethodGet, "/api/auth/verify", nil, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// Protected calls the protected probe, which also refreshes the idle timer.
func (s *Session) Protected(ctx context.Context) (*ProtectedResponse, error) {
	var out ProtectedResponse
	if err := s.doAuthRequest(ctx, http.MethodGet, "/api/auth/protected", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the token server side. The session must not be used
// afterwards.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.doAuthRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil, http.StatusOK); err != nil {
		return err
	}
	s.client.forgetCSRF()
	return nil
}

// ListNotes returns the caller's notes.
func (s *Session) ListNotes(ctx context.Context) ([]Note, error) {
	var out []Note
	if err := s.doAuthRequest(ctx, http.MethodGet, "/api/notes", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNote fetches one note by id.
func (s *Session) GetNote(ctx context.Context, id string) (*Note, error) {
	var out Note
	if err := s.doAuthRequest(ctx, http.MethodGet, notePath(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateNote stores a new note.
func (s *Session) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	var out Note
	req := NoteRequest{Title: title, Content: content}
	if err := s.doAuthRequest(ctx, http.MethodPost, "/api/notes", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote replaces a note's title and content.
func (s *Session) UpdateNote(ctx context.Context, id, title, content string) (*Note, error) {
	var out Note
	req := NoteRequest{Title: title, Content: content}
	if err := s.doAuthRequest(ctx, http.MethodPut, notePath(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote removes a note.
func (s *Session) DeleteNote(ctx context.Context, id string) error {
	return s.doAuthRequest(ctx, http.MethodDelete, notePath(id), nil, nil, http.StatusOK)
}

func notePath(id string) string {
	return "/api/notes/" + url.PathEscape(id)
}
