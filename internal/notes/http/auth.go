package http

import (
	"net/http"

	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

type AuthHandler struct {
	AuthService   *service.AuthService
	CSRF          *httpx.CSRFGuard
	SecureCookies bool
}

// HandleSignup registers a new user.
//
//	@Summary		Sign up
//	@Description	Creates a user account. All fields are required; the password must satisfy the strength policy.
//	@Description	This endpoint does not require a CSRF token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		notesdk.SignupRequest	true	"New account"
//	@Success		201		{object}	notesdk.MessageResponse
//	@Failure		400		{object}	notesdk.ErrorResponse	"Validation failure or username/email taken"
//	@Failure		429		{object}	notesdk.ErrorResponse
//	@Failure		500		{object}	notesdk.ErrorResponse
//	@Router			/api/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req notesdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	_, err := h.AuthService.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, notesdk.MessageResponse{Message: "User created successfully"})
}

// HandleCSRFToken issues a CSRF token.
//
//	@Summary		Get CSRF token
//	@Description	Sets the XSRF-TOKEN cookie and returns the same value. Send it back in the X-CSRF-Token header on every state-changing request.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	notesdk.CSRFTokenResponse
//	@Failure		500	{object}	notesdk.ErrorResponse
//	@Router			/api/auth/csrf-token [get].
func (h *AuthHandler) HandleCSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.CSRF.Issue(w)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, notesdk.CSRFTokenResponse{CSRFToken: token})
}

// HandleLogin authenticates a user.
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for an access token. The token is returned in the body and in the session cookie.
//	@Description	Failed attempts are limited to 5 per client address in any 15 minute window; successful logins do not count.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		notesdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	notesdk.LoginResponse
//	@Failure		400		{object}	notesdk.ErrorResponse	"Missing fields or invalid credentials"
//	@Failure		429		{object}	notesdk.ErrorResponse	"Too many attempts"
//	@Failure		500		{object}	notesdk.ErrorResponse
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req notesdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, res.Token, h.SecureCookies, h.AuthService.TokenTTL)

	if attempt := attemptFromContext(ctx); attempt != nil {
		if err := attempt.Succeeded(ctx); err != nil {
			slogx.FromContext(ctx).Warn("failed to release login attempt", "err", err)
		}
	}

	httpx.WriteJSON(w, http.StatusOK, notesdk.LoginResponse{
		Message: "Login successful",
		Token:   res.Token,
		User: notesdk.UserSummary{
			ID:       res.User.ID,
			Username: res.User.Username,
			Name:     res.User.Name,
		},
	})
}

// HandleLogout revokes the presented token.
//
//	@Summary		Log out
//	@Description	Revokes the access token until it expires and clears the session and CSRF cookies.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Param			X-CSRF-Token	header		string	true	"CSRF token"
//	@Success		200				{object}	notesdk.MessageResponse
//	@Failure		400				{object}	notesdk.ErrorResponse	"Missing Authorization header or invalid CSRF token"
//	@Failure		401				{object}	notesdk.ErrorResponse	"Invalid or revoked token"
//	@Failure		500				{object}	notesdk.ErrorResponse
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, _ := httpx.TokenFromContext(ctx)
	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		httpx.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(ctx, claims.User(), raw, claims.Expiry()); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.ClearSessionCookie(w, h.SecureCookies)
	h.CSRF.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, notesdk.MessageResponse{Message: "Logout successful"})
}

// HandleVerify reports whether the presented token is usable.
//
//	@Summary		Verify token
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	notesdk.VerifyResponse
//	@Failure		401	{object}	notesdk.ErrorResponse
//	@Router			/api/auth/verify [get].
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, notesdk.VerifyResponse{Valid: true})
}

// HandleProtected is a probe for the full authentication pipeline.
//
//	@Summary		Protected route
//	@Description	Succeeds only with a valid, unrevoked token and an active session.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	notesdk.ProtectedResponse
//	@Failure		400	{object}	notesdk.ErrorResponse	"Missing Authorization header"
//	@Failure		401	{object}	notesdk.ErrorResponse	"Invalid or revoked token, or session expired"
//	@Router			/api/auth/protected [get].
func (h *AuthHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	userID, _ := httpx.UserIDFromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, notesdk.ProtectedResponse{
		Message: "This is a protected route",
		User:    notesdk.UserSummary{ID: userID},
	})
}
