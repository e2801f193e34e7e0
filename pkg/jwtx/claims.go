package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of a login token. Matches the session
// idle timeout so a token never outlives an idle session by much.
const DefaultAccessTokenTTL = 15 * time.Minute

// Claims are the access-token claims. UserID duplicates the subject under the
// "userId" name the browser client reads.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
}

// NewAccessClaims builds the claims for a token issued to userID at now.
func NewAccessClaims(userID string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UserID: userID,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two tokens
// issued to the same user in the same second must still differ, otherwise
// revoking one would revoke both.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// Expiry returns the exp claim, or the zero time when it is absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ValidateExpiry reports ErrExpired once now has reached exp.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}

// User returns the user id, preferring the registered subject.
func (c *Claims) User() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}
