package notes_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/stretchr/testify/require"
)

// TestAuthFlow walks signup, login, verify, logout and checks the token is
// dead afterwards.
func TestAuthFlow(t *testing.T) {
	baseURL, cleanup := setupNotesContainer(t)
	defer cleanup()

	_, session := newAccount(t, baseURL, "alice")

	valid, err := session.Verify(t.Context())
	require.NoError(t, err)
	require.True(t, valid)

	prot, err := session.Protected(t.Context())
	require.NoError(t, err)
	require.Equal(t, session.User().ID, prot.User.ID)

	require.NoError(t, session.Logout(t.Context()))

	_, err = session.Verify(t.Context())
	require.Equal(t, http.StatusUnauthorized, notesdk.StatusCode(err))
}

// TestSignupConflicts checks usernames and emails are unique.
func TestSignupConflicts(t *testing.T) {
	baseURL, cleanup := setupNotesContainer(t)
	defer cleanup()

	newAccount(t, baseURL, "bob")
	client := notesdk.NewSDKClient(baseURL)

	_, err := client.Signup(t.Context(), notesdk.SignupRequest{
		Name: "Other", Username: "bob", Email: "other@example.com", Password: testPassword,
	})
	require.True(t, notesdk.IsErrorCode(err, notesdk.ErrorCodeConflict))

	_, err = client.Signup(t.Context(), notesdk.SignupRequest{
		Name: "Other", Username: "bobby", Email: "BOB@example.com", Password: testPassword,
	})
	require.True(t, notesdk.IsErrorCode(err, notesdk.ErrorCodeConflict))

	_, err = client.Signup(t.Context(), notesdk.SignupRequest{
		Name: "Weak", Username: "weak", Email: "weak@example.com", Password: "password",
	})
	require.True(t, notesdk.IsErrorCode(err, notesdk.ErrorCodeValidation))
}

// TestLoginThrottle checks the sixth login inside the window is refused
// even with the right password.
func TestLoginThrottle(t *testing.T) {
	baseURL, cleanup := setupNotesContainer(t)
	defer cleanup()

	client, _ := newAccount(t, baseURL, "carol")

	for i := range 5 {
		_, err := client.Login(t.Context(), "carol", "Wrong123!")
		require.True(t, notesdk.IsErrorCode(err, notesdk.ErrorCodeInvalidCreds), "attempt %d", i+1)
	}

	_, err := client.Login(t.Context(), "carol", testPassword)
	require.Equal(t, http.StatusTooManyRequests, notesdk.StatusCode(err))
	require.Positive(t, notesdk.RetryAfter(err))
}
