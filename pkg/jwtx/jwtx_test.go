package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef-test")

// fixedClock returns a clock frozen at *at, so tests can move time around.
func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func newPair(t *testing.T, now *time.Time) (*jwtx.HS256Signer, *jwtx.HS256Verifier) {
	t.Helper()
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, jwtx.WithClock(fixedClock(now)))
	require.NoError(t, err)
	return signer, verifier
}

func TestSignAndVerify(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	signer, verifier := newPair(t, &now)
	require.Equal(t, "HS256", signer.Alg())

	token, err := signer.Sign(jwtx.NewAccessClaims("user-123", jwtx.DefaultAccessTokenTTL, now))
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.User())
	require.Equal(t, "user-123", claims.UserID)
	require.True(t, now.Add(15*time.Minute).Equal(claims.Expiry()))
	require.NotEmpty(t, claims.ID)
}

func TestExpiryBoundary(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	now := issued
	signer, verifier := newPair(t, &now)

	token, err := signer.Sign(jwtx.NewAccessClaims("user-1", 15*time.Minute, issued))
	require.NoError(t, err)
	exp := issued.Add(15 * time.Minute)

	t.Run("one second before expiry", func(t *testing.T) {
		now = exp.Add(-time.Second)
		_, err := verifier.Verify(token)
		require.NoError(t, err)
	})

	t.Run("at expiry", func(t *testing.T) {
		now = exp
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("one second after expiry", func(t *testing.T) {
		now = exp.Add(time.Second)
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestVerifyRejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	signer, verifier := newPair(t, &now)

	good, err := signer.Sign(jwtx.NewAccessClaims("user-1", time.Minute, now))
	require.NoError(t, err)

	t.Run("tampered signature", func(t *testing.T) {
		parts := strings.Split(good, ".")
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		_, err := verifier.Verify(parts[0] + "." + parts[1] + "." + string(sig))
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := jwtx.NewSignerHS256([]byte(strings.Repeat("z", 40)))
		require.NoError(t, err)
		tok, err := other.Sign(jwtx.NewAccessClaims("user-1", time.Minute, now))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := verifier.Verify("not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("alg none", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewAccessClaims("user-1", time.Minute, now))
		raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrAlgMismatch)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("", time.Minute, now))
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("missing expiry", func(t *testing.T) {
		c := jwtx.NewAccessClaims("user-1", time.Minute, now)
		c.ExpiresAt = nil
		tok, err := signer.Sign(c)
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}

func TestUniqueTokensSameSecond(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	signer, _ := newPair(t, &now)

	a, err := signer.Sign(jwtx.NewAccessClaims("user-1", time.Minute, now))
	require.NoError(t, err)
	b, err := signer.Sign(jwtx.NewAccessClaims("user-1", time.Minute, now))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestWeakSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256([]byte("short"))
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = jwtx.NewVerifierHS256(nil)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := jwtx.NewAccessClaims("user-1", time.Minute, now)

	require.NoError(t, c.ValidateExpiry(now))
	require.ErrorIs(t, c.ValidateExpiry(now.Add(time.Minute)), jwtx.ErrExpired)

	c.ExpiresAt = nil
	require.ErrorIs(t, c.ValidateExpiry(now), jwtx.ErrInvalidClaim)
}
