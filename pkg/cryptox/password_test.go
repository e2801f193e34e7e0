package cryptox

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	// Cost 12 is too slow for a table of cases; the cost itself is checked below.
	restore := SetPasswordCostForTesting(bcrypt.MinCost)
	code := m.Run()
	restore()
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
		{"max length", strings.Repeat("a", MaxPasswordBytes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$2a$"), "hash should be bcrypt")

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.ErrorIs(t, VerifyPassword(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	h2, err := HashPassword("Abcdef1!")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "each hash should carry its own salt")
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHashPassword_DefaultCost(t *testing.T) {
	restore := SetPasswordCostForTesting(DefaultPasswordCost)
	defer restore()

	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, 12, cost)
}

func TestVerifyPassword_CorruptHash(t *testing.T) {
	err := VerifyPassword("anything", "not-a-bcrypt-hash")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestEqualizePasswordTiming(t *testing.T) {
	require.NotPanics(t, func() {
		EqualizePasswordTiming("whatever")
		EqualizePasswordTiming("")
	})
}
