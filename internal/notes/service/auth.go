package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/metrics"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/cryptox"
	"github.com/aussiebroadwan/notes/pkg/idx"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// AuthService runs signup, login and logout.
type AuthService struct {
	Store       store.Store
	Cipher      *cryptox.FieldCipher
	Signer      jwtx.Signer
	TokenTTL    time.Duration
	Sessions    *SessionGate
	Revocations *RevocationRegistry
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Signup validates the input and creates the user. Username and email
// uniqueness are checked separately so the caller learns which one clashed;
// the unique indexes settle any race between concurrent signups.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)

	if name == "" || username == "" || email == "" || strings.TrimSpace(in.Password) == "" {
		return domain.User{}, &ValidationError{Message: MsgFieldsRequired}
	}
	if !ValidEmail(email) {
		return domain.User{}, &ValidationError{Message: MsgInvalidEmail}
	}
	if err := ValidatePassword(in.Password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	ciphertext, err := s.Cipher.EncryptString(email)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:              idx.NewAt(now).String(),
		Username:        username,
		Name:            name,
		PasswordHash:    hash,
		EmailCiphertext: ciphertext,
		EmailIndex:      s.Cipher.BlindIndex(email),
		LastActive:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByUsername(ctx, username); err == nil {
			return &ConflictError{Message: MsgUsernameTaken}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByEmailIndex(ctx, user.EmailIndex); err == nil {
			return &ConflictError{Message: MsgEmailTaken}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		return mapDuplicate(tx.Users().CreateUser(ctx, user))
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user signed up", "user_id", user.ID)
	s.Metrics.AuthEvent(metrics.EventSignup)
	return user, nil
}

func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		return &ConflictError{Message: MsgUsernameTaken}
	case errors.Is(err, store.ErrDuplicateEmail):
		return &ConflictError{Message: MsgEmailTaken}
	}
	return err
}

// Login checks credentials and issues an access token. Unknown users and
// wrong passwords are indistinguishable to the caller, in message and in
// timing.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return LoginResult{}, &ValidationError{Message: MsgLoginFieldsRequired}
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, err
		}
		cryptox.EqualizePasswordTiming(password)
		log.Warn("login failed", "reason", "unknown_user")
		s.Metrics.AuthEvent(metrics.EventLoginFailure)
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash unusable", "user_id", user.ID, "error", err)
		}
		log.Warn("login failed", "reason", "bad_password", "user_id", user.ID)
		s.Metrics.AuthEvent(metrics.EventLoginFailure)
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(user.ID, ttl, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Sessions.Touch(ctx, user.ID); err != nil {
		return LoginResult{}, err
	}

	log.Info("login succeeded", "user_id", user.ID)
	s.Metrics.AuthEvent(metrics.EventLoginSuccess)
	return LoginResult{Token: token, ExpiresAt: claims.Expiry(), User: user}, nil
}

// Logout revokes token until it would have expired and records activity.
func (s *AuthService) Logout(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if err := s.Revocations.Revoke(ctx, token, expiresAt); err != nil {
		return err
	}
	if err := s.Sessions.Touch(ctx, userID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("logout", "user_id", userID)
	s.Metrics.AuthEvent(metrics.EventLogout)
	return nil
}

// Email decrypts the user's stored address.
func (s *AuthService) Email(u domain.User) (string, error) {
	return s.Cipher.DecryptString(u.EmailCiphertext)
}
